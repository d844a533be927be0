// Package worker implements auto mining and conflict resolution for the
// blockchain.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/blockledger/foundation/blockchain/state"
)

// defaultResolveInterval represents the interval of checking if the chain
// needs to be resolved against the peers.
const defaultResolveInterval = 30 * time.Second

// =============================================================================

// Config represents the behavior of the background operations.
type Config struct {
	AutoMine        bool
	ResolveInterval time.Duration
}

// Worker manages the POW workflows for the blockchain.
type Worker struct {
	state       *state.State
	cfg         Config
	wg          sync.WaitGroup
	ticker      *time.Ticker
	shut        chan struct{}
	ctx         context.Context
	cancel      context.CancelFunc
	startMining chan bool
	resolve     chan bool
	evHandler   state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, cfg Config, evHandler state.EventHandler) *Worker {
	if cfg.ResolveInterval <= 0 {
		cfg.ResolveInterval = defaultResolveInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := Worker{
		state:       st,
		cfg:         cfg,
		ticker:      time.NewTicker(cfg.ResolveInterval),
		shut:        make(chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
		startMining: make(chan bool, 1),
		resolve:     make(chan bool, 1),
		evHandler:   evHandler,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Catch up with the peers before starting any support G's.
	w.runResolveOperation()

	// Load the set of operations we need to run.
	operations := []func(){
		w.resolveOperations,
		w.miningOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	// Mine whatever was left in the mempool from the last run.
	w.SignalStartMining()

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop ticker")
	w.ticker.Stop()

	w.evHandler("worker: shutdown: cancel running operations")
	w.cancel()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalStartMining starts a mining operation. If there is already a signal
// pending in the channel, just return since a mining operation will start.
func (w *Worker) SignalStartMining() {
	if !w.cfg.AutoMine {
		return
	}

	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")
}

// SignalResolve starts a conflict resolution. If there is already a signal
// pending in the channel, just return since a resolution will start.
func (w *Worker) SignalResolve() {
	select {
	case w.resolve <- true:
	default:
	}
	w.evHandler("worker: SignalResolve: resolve signaled")
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
