package state

import (
	"context"

	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
)

// Resolve applies the longest valid chain rule. The chain of every known
// peer is downloaded and the longest one that is strictly longer than the
// local chain and verifies replaces the local chain. Peers that can't be
// reached are skipped. On replacement the mempool is cleared.
func (s *State) Resolve(ctx context.Context) (bool, error) {
	s.evHandler("state: Resolve: started")
	defer s.evHandler("state: Resolve: completed")

	s.mu.RLock()
	longest := len(s.chain)
	genesisHash := s.chain[0].Hash()
	s.mu.RUnlock()

	var winner []database.Block
	for _, pr := range s.RetrieveKnownPeers() {
		chain, err := s.transport.GetChain(ctx, pr.Host)
		if err != nil {
			s.evHandler("state: Resolve: peer[%s]: skipped: %s", pr, err)
			continue
		}

		if len(chain) <= longest {
			s.evHandler("state: Resolve: peer[%s]: blocks[%d]: not longer", pr, len(chain))
			continue
		}

		if chain[0].Hash() != genesisHash || !s.consensus.VerifyChain(chain) {
			s.evHandler("state: Resolve: peer[%s]: blocks[%d]: invalid chain", pr, len(chain))
			continue
		}

		s.evHandler("state: Resolve: peer[%s]: blocks[%d]: candidate", pr, len(chain))
		winner = chain
		longest = len(chain)
	}

	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	s.needsResolution.Store(false)

	if winner == nil || !s.replaceChain(winner) {
		return false, nil
	}

	// The mining operation in progress is working on a replaced tip.
	s.cancelMiningOperation()

	return true, nil
}

// =============================================================================

// replaceChain swaps in the new chain if it is still longer than the local
// chain. The pending transactions are dropped.
func (s *State) replaceChain(chain []database.Block) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(chain) <= len(s.chain) {
		return false
	}

	s.evHandler("state: replaceChain: blocks[%d] replaced by blocks[%d]", len(s.chain), len(chain))

	s.chain = database.CopyChain(chain)
	s.mempool.Truncate()

	s.persist()
	s.blockEvent(s.latestBlock())

	return true
}
