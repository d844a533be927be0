// Package memory implements the ability to read and write the ledger state
// to memory.
package memory

import (
	"errors"
	"sync"

	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("ledger state not found")

// Memory represents the storage implementation for reading and storing the
// ledger state in memory. This implements the database.Storage interface.
type Memory struct {
	mu    sync.RWMutex
	state *database.LedgerState
	saves int
	fail  error
}

// New constructs a Memory value for use.
func New() *Memory {
	return &Memory{}
}

// NewWithState constructs a Memory value that already holds the state.
func NewWithState(state database.LedgerState) *Memory {
	cpy := state.Copy()
	return &Memory{state: &cpy}
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Save keeps a copy of the ledger state.
func (m *Memory) Save(state database.LedgerState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail != nil {
		return m.fail
	}

	cpy := state.Copy()
	m.state = &cpy
	m.saves++

	return nil
}

// Load returns a copy of the last saved ledger state.
func (m *Memory) Load() (database.LedgerState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state == nil {
		return database.LedgerState{}, ErrNotFound
	}

	return m.state.Copy(), nil
}

// Saves returns the number of successful calls to Save.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.saves
}

// FailSaves makes every following call to Save return the error. Passing
// nil restores normal behavior.
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fail = err
}
