// Package database defines the blockchain data model: transactions, blocks
// and the ledger state that is handed to persistence.
package database

// Storage interface represents the behavior required to be implemented by any
// package providing support for persisting the ledger state.
type Storage interface {
	Load() (LedgerState, error)
	Save(state LedgerState) error
	Close() error
}

// =============================================================================

// LedgerState represents everything a node needs to restart where it left off.
type LedgerState struct {
	Chain   []Block  `json:"chain"`
	Mempool []Tx     `json:"open_transactions"`
	Peers   []string `json:"peer_nodes"`
}

// Copy returns a deep copy of the ledger state.
func (ls LedgerState) Copy() LedgerState {
	peers := make([]string, len(ls.Peers))
	copy(peers, ls.Peers)

	return LedgerState{
		Chain:   CopyChain(ls.Chain),
		Mempool: CopyTrans(ls.Mempool),
		Peers:   peers,
	}
}
