// Package verification implements the consensus rules of the blockchain as
// pure functions. Nothing in this package holds state, every input is passed
// in by the caller.
package verification

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
	"github.com/ardanlabs/blockledger/foundation/blockchain/hashing"
)

// maxDifficulty is the number of hex characters in a sha256 digest.
const maxDifficulty = 64

// BalanceFunc returns the current balance for the participant.
type BalanceFunc func(participant string) float64

// =============================================================================

// Consensus carries the proof of work difficulty the rules are checked with.
type Consensus struct {
	difficulty uint16
	prefix     string
}

// New constructs the consensus rules for the specified difficulty, which is
// the number of leading hex zeros a proof hash must have.
func New(difficulty uint16) Consensus {
	if difficulty > maxDifficulty {
		difficulty = maxDifficulty
	}

	return Consensus{
		difficulty: difficulty,
		prefix:     strings.Repeat("0", int(difficulty)),
	}
}

// Difficulty returns the configured difficulty.
func (c Consensus) Difficulty() uint16 {
	return c.difficulty
}

// ValidProof checks the proof solves the puzzle for the transactions on top
// of the last hash.
func (c Consensus) ValidProof(trans []database.Tx, lastHash string, proof uint64) bool {
	guess, err := proofGuess(trans, lastHash)
	if err != nil {
		return false
	}

	return c.solved(guess, proof)
}

// Solve searches for the smallest proof that solves the puzzle for the
// transactions on top of the last hash. The search only ends when a proof is
// found or the context is cancelled.
func (c Consensus) Solve(ctx context.Context, trans []database.Tx, lastHash string) (uint64, error) {
	guess, err := proofGuess(trans, lastHash)
	if err != nil {
		return 0, err
	}

	for proof := uint64(0); proof < math.MaxUint64; proof++ {
		if proof%1024 == 0 && ctx.Err() != nil {
			return 0, ctx.Err()
		}

		if c.solved(guess, proof) {
			return proof, nil
		}
	}

	return 0, ctx.Err()
}

// VerifyChain checks every block after genesis links to the hash of the
// block before it and carries a valid proof over its transactions without
// the reward. The genesis block is exempt from both checks.
func (c Consensus) VerifyChain(chain []database.Block) bool {
	for i, block := range chain {
		if i == 0 {
			continue
		}

		if block.Index != uint64(i) {
			return false
		}

		if block.PreviousHash != chain[i-1].Hash() {
			return false
		}

		if len(block.Trans) == 0 {
			return false
		}

		if !c.ValidProof(block.ProofTrans(), block.PreviousHash, block.Proof) {
			return false
		}
	}

	return true
}

// solved hashes the guess with the proof appended and checks the prefix.
func (c Consensus) solved(guess []byte, proof uint64) bool {
	data := strconv.AppendUint(guess, proof, 10)
	return strings.HasPrefix(hashing.Bytes(data), c.prefix)
}

// =============================================================================

// VerifyTransaction checks the transaction is signed by the sender. When
// checkFunds is true the sender must also hold enough to cover the amount.
func VerifyTransaction(tx database.Tx, balance BalanceFunc, checkFunds bool) bool {
	if tx.Amount < 0 || math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
		return false
	}

	if checkFunds && balance(tx.Sender) < tx.Amount {
		return false
	}

	return tx.VerifySignature()
}

// VerifyTransactions checks the signature of every transaction. Funds are
// not checked again since they were checked when each transaction was
// admitted.
func VerifyTransactions(trans []database.Tx, balance BalanceFunc) bool {
	for _, tx := range trans {
		if !VerifyTransaction(tx, balance, false) {
			return false
		}
	}

	return true
}

// =============================================================================

// proofGuess returns the ordered transaction encodings followed by the last
// hash. The proof is appended to a copy for every attempt.
func proofGuess(trans []database.Tx, lastHash string) ([]byte, error) {
	data, err := json.Marshal(database.CopyTrans(trans))
	if err != nil {
		return nil, err
	}

	guess := make([]byte, 0, len(data)+len(lastHash)+20)
	guess = append(guess, data...)
	guess = append(guess, lastHash...)

	return guess, nil
}
