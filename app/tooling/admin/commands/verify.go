package commands

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/blockledger/foundation/blockchain/verification"
)

// Verify validates the stored chain with the consensus rules of the genesis.
func Verify(ldg Ledger) error {
	if len(ldg.State.Chain) == 0 {
		return errors.New("no blocks stored")
	}

	consensus := verification.New(ldg.Genesis.Difficulty)
	if !consensus.VerifyChain(ldg.State.Chain) {
		return errors.New("chain is invalid")
	}

	fmt.Printf("Chain is valid: %d blocks, difficulty %d\n", len(ldg.State.Chain), consensus.Difficulty())

	return nil
}
