package worker

import (
	"errors"
	"time"

	"github.com/ardanlabs/blockledger/foundation/blockchain/state"
)

// miningOperations handles mining.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.startMining:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation takes all the transactions from the mempool and writes a
// new block to the chain.
func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	// Make sure there are transactions in the mempool.
	length := w.state.QueryMempoolLength()
	if length == 0 {
		w.evHandler("worker: runMiningOperation: MINING: no transactions to mine: Txs[%d]", length)
		return
	}

	// After running a mining operation, check if a new operation should
	// be signaled again.
	defer func() {
		length := w.state.QueryMempoolLength()
		if length > 0 && !w.isShutdown() {
			w.evHandler("worker: runMiningOperation: MINING: signal new mining operation: Txs[%d]", length)
			w.SignalStartMining()
		}
	}()

	start := time.Now()

	block, err := w.state.MineBlock(w.ctx)
	if err != nil {
		w.miningFailed(err)
		return
	}

	w.evHandler("worker: runMiningOperation: MINING: block[%d] proof[%d] trans[%d] took[%s]", block.Index, block.Proof, len(block.Trans), time.Since(start))
}

// miningFailed reports why a mining operation produced no block.
func (w *Worker) miningFailed(err error) {
	switch {
	case errors.Is(err, state.ErrNoIdentity):
		w.evHandler("worker: runMiningOperation: MINING: WARNING: no hosting identity")
	case errors.Is(err, state.ErrStaleBlock):
		w.evHandler("worker: runMiningOperation: MINING: STALE: chain moved while mining")
	case errors.Is(err, state.ErrInvalidTransaction):
		w.evHandler("worker: runMiningOperation: MINING: WARNING: pending transactions no longer verify")
	case w.ctx.Err() != nil:
		w.evHandler("worker: runMiningOperation: MINING: CANCELLED: shutdown")
	default:
		w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
	}
}
