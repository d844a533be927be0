package commands

import (
	"fmt"
	"sort"
)

// Balances prints the confirmed balance of every participant, or of only
// the one provided.
func Balances(onlyAct string, ldg Ledger) error {
	bals := make(map[string]float64)
	for _, blk := range ldg.State.Chain {
		for _, tx := range blk.Trans {
			if tx.Sender != ldg.Genesis.MiningSender {
				bals[tx.Sender] -= tx.Amount
			}
			bals[tx.Recipient] += tx.Amount
		}
	}

	fmt.Printf("LatestBlockHash: %s\n\n", ldg.latestHash())

	if onlyAct != "" {
		fmt.Printf("Account: %s  Balance: %.2f\n", ldg.name(onlyAct), bals[onlyAct])
		return nil
	}

	acts := make([]string, 0, len(bals))
	for act := range bals {
		acts = append(acts, act)
	}
	sort.Strings(acts)

	for _, act := range acts {
		fmt.Printf("Account: %s  Balance: %.2f\n", ldg.name(act), bals[act])
	}

	return nil
}
