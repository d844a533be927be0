package state

import (
	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
)

// Balance returns the balance of the participant computed by replaying the
// whole chain and the pending transactions. When the participant is empty
// the hosting identity is used, and false is returned when there is none.
func (s *State) Balance(participant string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if participant == "" {
		participant = s.hostID
	}

	if participant == "" {
		return 0, false
	}

	return s.balance(participant), true
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryBlocksByParticipant returns the set of blocks holding a transaction
// where the participant is the sender or the recipient. If the participant
// is empty, all blocks are returned.
func (s *State) QueryBlocksByParticipant(participant string) []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []database.Block
	for _, block := range s.chain {
		if participant == "" {
			out = append(out, block.Copy())
			continue
		}

		for _, tx := range block.Trans {
			if tx.Sender == participant || tx.Recipient == participant {
				out = append(out, block.Copy())
				break
			}
		}
	}

	return out
}

// =============================================================================

// balance computes received minus sent and pending amounts. This must be
// called with the lock held.
func (s *State) balance(participant string) float64 {
	var received, sent float64

	for _, block := range s.chain {
		for _, tx := range block.Trans {
			if tx.Party(database.PartyRecipient) == participant {
				received += tx.Amount
			}
			if tx.Party(database.PartySender) == participant {
				sent += tx.Amount
			}
		}
	}

	pending := s.mempool.SumFor(participant, database.PartySender)

	return received - (sent + pending)
}
