package state

import (
	"context"
	"fmt"
	"time"

	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
	"github.com/ardanlabs/blockledger/foundation/blockchain/peer"
	"github.com/ardanlabs/blockledger/foundation/blockchain/verification"
)

// ProofOfWork searches for the smallest proof that solves the work problem
// for the open transactions on top of the current tip. The search stops when
// the context is cancelled.
func (s *State) ProofOfWork(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	lastHash := s.latestBlock().Hash()
	trans := s.mempool.Copy()
	s.mu.RUnlock()

	return s.consensus.Solve(ctx, trans, lastHash)
}

// MineBlock attempts to create a new block holding the open transactions and
// the mining reward for the hosting identity. The search runs without the
// lock. If the tip of the chain moved while searching, or a peer block or
// resolve stopped the search, ErrStaleBlock is returned. Cancelling ctx
// returns the context error.
func (s *State) MineBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineBlock: MINING: started")
	defer s.evHandler("state: MineBlock: MINING: completed")

	// Capture everything the search needs in one consistent snapshot.
	s.mu.RLock()
	hostID := s.hostID
	tip := s.latestBlock()
	trans := s.mempool.Copy()
	s.mu.RUnlock()

	if hostID == "" {
		return database.Block{}, ErrNoIdentity
	}

	// Check the signatures one more time before doing the work.
	if !verification.VerifyTransactions(trans, nil) {
		return database.Block{}, fmt.Errorf("%w: mempool holds a transaction with a bad signature", ErrInvalidTransaction)
	}

	// The search is cancelled if a block from a peer or a resolve changes
	// the tip of the chain.
	miningCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	unregister := s.registerMining(cancel)

	s.evHandler("state: MineBlock: MINING: perform POW: trans[%d]", len(trans))

	t := time.Now()
	lastHash := tip.Hash()
	proof, err := s.consensus.Solve(miningCtx, trans, lastHash)
	unregister()
	if err != nil {
		if ctx.Err() == nil && miningCtx.Err() != nil {
			return database.Block{}, fmt.Errorf("%w: search cancelled", ErrStaleBlock)
		}
		return database.Block{}, err
	}

	s.evHandler("state: MineBlock: MINING: solved: proof[%d] duration[%v]", proof, time.Since(t))

	reward := database.NewRewardTx(s.genesis.MiningSender, hostID, s.genesis.MiningReward)
	block := database.NewBlock(tip.Index+1, lastHash, append(trans, reward), proof)

	if err := s.appendMinedBlock(block); err != nil {
		return database.Block{}, err
	}

	s.sendBlockToPeers(ctx, block)

	return block.Copy(), nil
}

// =============================================================================

// appendMinedBlock adds the block to the chain when the chain has not moved
// since the work started.
func (s *State) appendMinedBlock(block database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latestBlock().Hash() != block.PreviousHash {
		return ErrStaleBlock
	}

	s.chain = append(s.chain, block)
	removed := s.mempool.Delete(block.ProofTrans())

	s.evHandler("state: appendMinedBlock: block[%d] removed trans[%d]", block.Index, removed)

	s.persist()
	s.blockEvent(block)

	return nil
}

// sendBlockToPeers shares the new block with all known peers. A peer that
// disagrees means this node may be behind.
func (s *State) sendBlockToPeers(ctx context.Context, block database.Block) {
	s.evHandler("state: sendBlockToPeers: started")
	defer s.evHandler("state: sendBlockToPeers: completed")

	for _, pr := range s.RetrieveKnownPeers() {
		status := s.transport.PostBlock(ctx, pr.Host, block)
		s.evHandler("state: sendBlockToPeers: peer[%s]: %s", pr, status)

		switch status {
		case peer.StatusConflict, peer.StatusRejected:
			s.signalResolution()
		}
	}
}

// registerMining records the cancel function of a mining operation so it can
// be stopped when the chain changes. The returned function removes it again.
func (s *State) registerMining(cancel context.CancelFunc) func() {
	s.miningMu.Lock()
	defer s.miningMu.Unlock()

	op := &miningOp{cancel: cancel}
	if s.miningOps == nil {
		s.miningOps = make(map[*miningOp]struct{})
	}
	s.miningOps[op] = struct{}{}

	return func() {
		s.miningMu.Lock()
		defer s.miningMu.Unlock()

		delete(s.miningOps, op)
	}
}

// cancelMiningOperation stops every mining operation in progress.
func (s *State) cancelMiningOperation() {
	s.miningMu.Lock()
	defer s.miningMu.Unlock()

	for op := range s.miningOps {
		s.evHandler("state: cancelMiningOperation: MINING: CANCEL: signaled")
		op.cancel()
		delete(s.miningOps, op)
	}
}
