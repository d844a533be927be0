package state

import (
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
)

// ProcessProposedBlock takes a block received from a peer, validates it and
// if that passes, appends it to the chain. Open transactions the block
// includes are removed from the mempool. A block more than one position
// ahead of the tip means this node is behind and ErrChainAhead is returned.
func (s *State) ProcessProposedBlock(block database.Block) error {
	s.evHandler("state: ProcessProposedBlock: started: block[%d]: hash[%s]", block.Index, block.Hash())
	defer s.evHandler("state: ProcessProposedBlock: completed")

	if err := s.validateUpdateChain(block); err != nil {
		return err
	}

	// The mining operation in progress is working on a stale tip.
	s.cancelMiningOperation()
	s.signalMining()

	return nil
}

// =============================================================================

// validateUpdateChain checks the block against the tip of the chain and
// appends it. Nothing changes when validation fails.
func (s *State) validateUpdateChain(block database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tip := s.latestBlock()

	switch {
	case block.Index > tip.Index+1:
		s.evHandler("state: validateUpdateChain: block[%d] ahead of tip[%d]", block.Index, tip.Index)
		s.signalResolution()
		return fmt.Errorf("%w: block[%d] tip[%d]", ErrChainAhead, block.Index, tip.Index)

	case block.Index != tip.Index+1:
		return fmt.Errorf("%w: block[%d] is not ahead of tip[%d]", ErrInvalidBlock, block.Index, tip.Index)
	}

	if len(block.Trans) == 0 {
		return fmt.Errorf("%w: block[%d] has no reward transaction", ErrInvalidBlock, block.Index)
	}

	if block.PreviousHash != tip.Hash() {
		return fmt.Errorf("%w: block[%d] previous hash does not match the tip", ErrInvalidBlock, block.Index)
	}

	if !s.consensus.ValidProof(block.ProofTrans(), block.PreviousHash, block.Proof) {
		return fmt.Errorf("%w: block[%d] proof[%d] does not solve the work problem", ErrInvalidBlock, block.Index, block.Proof)
	}

	block = block.Copy()
	s.chain = append(s.chain, block)
	removed := s.mempool.Delete(block.Trans)

	s.evHandler("state: validateUpdateChain: block[%d] appended: removed trans[%d]", block.Index, removed)

	s.persist()
	s.blockEvent(block)

	return nil
}

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockTransJSON, err := json.Marshal(database.CopyTrans(block.Trans))
	if err != nil {
		blockTransJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: {"hash":%q,"index":%d,"previous_hash":%q,"proof":%d,"trans":%s}`, block.Hash(), block.Index, block.PreviousHash, block.Proof, string(blockTransJSON))
}
