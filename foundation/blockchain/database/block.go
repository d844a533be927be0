package database

import (
	"time"

	"github.com/ardanlabs/blockledger/foundation/blockchain/hashing"
)

// Block represents a group of transactions batched together. The last
// transaction of every block after genesis is the mining reward.
type Block struct {
	Index        uint64 `json:"index"`         // Position of the block in the chain, genesis is 0.
	PreviousHash string `json:"previous_hash"` // Hash of the previous block in the chain.
	TimeStamp    uint64 `json:"timestamp"`     // Time the block was created in unix seconds.
	Trans        []Tx   `json:"transactions"`  // Ordered transactions, reward last.
	Proof        uint64 `json:"proof"`         // Value identified to solve the proof of work puzzle.
}

// GenesisBlock returns the first block of every chain. The timestamp is fixed
// so every node derives the same genesis hash.
func GenesisBlock() Block {
	return Block{
		Index:        0,
		PreviousHash: "",
		TimeStamp:    0,
		Trans:        []Tx{},
		Proof:        0,
	}
}

// NewBlock constructs the next block on top of the previous block hash.
func NewBlock(index uint64, previousHash string, trans []Tx, proof uint64) Block {
	return Block{
		Index:        index,
		PreviousHash: previousHash,
		TimeStamp:    uint64(time.Now().UTC().Unix()),
		Trans:        CopyTrans(trans),
		Proof:        proof,
	}
}

// Hash returns the unique hash for the Block. The hash covers the canonical
// form of the whole block including its transactions.
func (b Block) Hash() string {
	return hashing.Value(b.savable())
}

// Copy returns a deep copy of the block so the caller can't alias the
// transactions of a block held by the chain.
func (b Block) Copy() Block {
	b.Trans = CopyTrans(b.Trans)
	return b
}

// ProofTrans returns the transactions covered by the proof of work, which is
// every transaction but the mining reward.
func (b Block) ProofTrans() []Tx {
	if len(b.Trans) == 0 {
		return nil
	}
	return b.Trans[:len(b.Trans)-1]
}

// savable returns the block in the form that is hashed, written to disk and
// sent over the network. An empty transaction list encodes as [] and never
// as null.
func (b Block) savable() Block {
	if b.Trans == nil {
		b.Trans = []Tx{}
	}
	return b
}

// =============================================================================

// CopyChain returns a deep copy of the chain.
func CopyChain(chain []Block) []Block {
	cpy := make([]Block, len(chain))
	for i, block := range chain {
		cpy[i] = block.Copy()
	}
	return cpy
}

// CopyTrans returns a copy of the transactions that is never nil.
func CopyTrans(trans []Tx) []Tx {
	cpy := make([]Tx, len(trans))
	copy(cpy, trans)
	return cpy
}
