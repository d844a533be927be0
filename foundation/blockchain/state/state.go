// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
	"github.com/ardanlabs/blockledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/blockledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/blockledger/foundation/blockchain/peer"
	"github.com/ardanlabs/blockledger/foundation/blockchain/verification"
)

// Set of errors returned by the ledger operations.
var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidBlock       = errors.New("invalid block")
	ErrChainAhead         = errors.New("block is ahead of the local chain")
	ErrStaleBlock         = errors.New("chain tip advanced while mining")
	ErrNoIdentity         = errors.New("no hosting identity")
	ErrPeerRejected       = errors.New("rejected by peer")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of persisting blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining and conflict resolution.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalResolve()
}

// Transport interface represents the behavior required to be implemented by
// any package providing support for talking to peer nodes. Every call is a
// single best effort attempt.
type Transport interface {
	PostTransaction(ctx context.Context, host string, tx database.Tx) peer.Status
	PostBlock(ctx context.Context, host string, block database.Block) peer.Status
	GetChain(ctx context.Context, host string) ([]database.Block, error)
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	HostID     string
	Host       string
	Genesis    genesis.Genesis
	Storage    database.Storage
	Transport  Transport
	KnownPeers *peer.PeerSet
	EvHandler  EventHandler
}

// miningOp is a mining operation in progress.
type miningOp struct {
	cancel context.CancelFunc
}

// State manages the blockchain database.
type State struct {
	mu sync.RWMutex

	hostID    string
	host      string
	evHandler EventHandler

	chain      []database.Block
	genesis    genesis.Genesis
	consensus  verification.Consensus
	mempool    *mempool.Mempool
	knownPeers *peer.PeerSet
	storage    database.Storage
	transport  Transport

	needsResolution atomic.Bool

	miningMu  sync.Mutex
	miningOps map[*miningOp]struct{}

	Worker Worker
}

// New constructs a new blockchain for data management. The ledger state is
// loaded from storage. When nothing usable is stored the node starts with
// the genesis block, an empty mempool and the configured peers.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}

	if cfg.Transport == nil {
		return nil, errors.New("transport is required")
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	gen := cfg.Genesis
	if gen.Difficulty == 0 {
		gen = genesis.Default()
	}

	consensus := verification.New(gen.Difficulty)

	chain := []database.Block{database.GenesisBlock()}
	var trans []database.Tx

	// Load the ledger state from the last run. Errors are not fatal, the
	// in memory state is authoritative.
	ls, err := cfg.Storage.Load()
	if err == nil {
		for _, host := range ls.Peers {
			knownPeers.Add(peer.New(host))
		}
	}

	switch {
	case err != nil:
		ev("state: New: load: WARNING: %s: starting from genesis", err)

	case len(ls.Chain) == 0:
		ev("state: New: load: empty chain: starting from genesis")

	case ls.Chain[0].Hash() != database.GenesisBlock().Hash() || !consensus.VerifyChain(ls.Chain):
		ev("state: New: load: WARNING: stored chain is invalid: starting from genesis")

	default:
		chain = ls.Chain
		trans = ls.Mempool
		ev("state: New: load: blocks[%d] trans[%d] peers[%d]", len(ls.Chain), len(ls.Mempool), len(ls.Peers))
	}

	state := State{
		hostID:    cfg.HostID,
		host:      cfg.Host,
		evHandler: ev,

		chain:      chain,
		genesis:    gen,
		consensus:  consensus,
		mempool:    mempool.NewWithTrans(trans),
		knownPeers: knownPeers,
		storage:    cfg.Storage,
		transport:  cfg.Transport,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Make sure the database is properly closed.
	defer func() {
		s.storage.Close()
	}()

	// Stop any mining in progress.
	s.cancelMiningOperation()

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// SetHostID changes the identity that receives the mining rewards of
// this node.
func (s *State) SetHostID(hostID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hostID = hostID
}

// NeedsResolution reports whether a peer signaled its chain disagrees with
// the local chain and a resolve has not taken place since.
func (s *State) NeedsResolution() bool {
	return s.needsResolution.Load()
}

// =============================================================================

// signalResolution records that the local chain may be behind.
func (s *State) signalResolution() {
	s.needsResolution.Store(true)

	if s.Worker != nil {
		s.Worker.SignalResolve()
	}
}

// signalMining lets the worker know there may be work to mine.
func (s *State) signalMining() {
	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}
}

// persist writes the ledger state to storage. This must be called with the
// lock held. Persistence failures are logged and never fail the operation.
func (s *State) persist() {
	ls := database.LedgerState{
		Chain:   database.CopyChain(s.chain),
		Mempool: s.mempool.Copy(),
		Peers:   s.knownPeers.Hosts(),
	}

	if err := s.storage.Save(ls); err != nil {
		s.evHandler("state: persist: WARNING: %s", err)
	}
}

// latestBlock returns the tip of the chain. This must be called with the
// lock held.
func (s *State) latestBlock() database.Block {
	return s.chain[len(s.chain)-1]
}
