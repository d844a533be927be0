package commands

import (
	"fmt"
)

// Transactions prints the confirmed transactions, filtered by participant
// when one is provided.
func Transactions(acct string, ldg Ledger) error {
	fmt.Printf("LatestBlockHash: %s\n\n", ldg.latestHash())

	for _, blk := range ldg.State.Chain {
		for _, tx := range blk.Trans {
			if acct != "" && tx.Sender != acct && tx.Recipient != acct {
				continue
			}
			fmt.Printf("Block: %d  From: %s  To: %s  Amount: %.2f\n",
				blk.Index, ldg.name(tx.Sender), ldg.name(tx.Recipient), tx.Amount)
		}
	}

	fmt.Printf("\nPending: %d\n", len(ldg.State.Mempool))

	return nil
}
