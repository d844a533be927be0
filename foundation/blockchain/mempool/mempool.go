// Package mempool maintains the mempool for the blockchain. Transactions are
// kept in the order they were accepted, which is the order they are mined in.
package mempool

import (
	"errors"
	"sync"

	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
)

// ErrDuplicate is returned when the same transaction is already pending.
var ErrDuplicate = errors.New("transaction already in mempool")

// Mempool represents the ordered cache of open transactions.
type Mempool struct {
	mu    sync.RWMutex
	trans []database.Tx
}

// New constructs a new empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// NewWithTrans constructs a mempool holding the transactions in order.
func NewWithTrans(trans []database.Tx) *Mempool {
	return &Mempool{
		trans: database.CopyTrans(trans),
	}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.trans)
}

// Add appends a transaction to the end of the pool.
func (mp *Mempool) Add(tx database.Tx) (int, error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for _, existing := range mp.trans {
		if existing.Equals(tx) {
			return len(mp.trans), ErrDuplicate
		}
	}

	mp.trans = append(mp.trans, tx)

	return len(mp.trans), nil
}

// Contains reports whether the transaction is pending.
func (mp *Mempool) Contains(tx database.Tx) bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	for _, existing := range mp.trans {
		if existing.Equals(tx) {
			return true
		}
	}

	return false
}

// Delete removes every pending transaction that matches one of the specified
// transactions and returns how many were removed.
func (mp *Mempool) Delete(trans []database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	keep := make([]database.Tx, 0, len(mp.trans))

next:
	for _, existing := range mp.trans {
		for _, tx := range trans {
			if existing.Equals(tx) {
				continue next
			}
		}
		keep = append(keep, existing)
	}

	removed := len(mp.trans) - len(keep)
	mp.trans = keep

	return removed
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.trans = nil
}

// Copy returns the pending transactions in the order they were accepted.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return database.CopyTrans(mp.trans)
}

// SumFor adds up the amounts of the pending transactions where the
// participant is the selected party.
func (mp *Mempool) SumFor(participant string, party database.Party) float64 {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	var total float64
	for _, tx := range mp.trans {
		if tx.Party(party) == participant {
			total += tx.Amount
		}
	}

	return total
}
