package state

import (
	"context"
	"fmt"
	"strings"

	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
	"github.com/ardanlabs/blockledger/foundation/blockchain/peer"
	"github.com/ardanlabs/blockledger/foundation/blockchain/verification"
)

// UpsertWalletTransaction accepts a transaction submitted through this node's
// wallet API. Once it is in the mempool it is shared with every known peer.
// If any peer rejects it ErrPeerRejected is returned even though the
// transaction stays in the local mempool.
func (s *State) UpsertWalletTransaction(ctx context.Context, tx database.Tx) error {
	if s.RetrieveHostID() == "" {
		return ErrNoIdentity
	}

	if err := s.admitTransaction(tx); err != nil {
		return err
	}

	return s.sendTxToPeers(ctx, tx)
}

// UpsertNodeTransaction accepts a transaction shared by a peer. It is not
// shared again.
func (s *State) UpsertNodeTransaction(tx database.Tx) error {
	return s.admitTransaction(tx)
}

// =============================================================================

// admitTransaction verifies the transaction against the current balance of
// the sender and adds it to the mempool.
func (s *State) admitTransaction(tx database.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: admitTransaction: tx[%s]", tx)

	if !verification.VerifyTransaction(tx, s.balance, true) {
		return fmt.Errorf("%w: %s: signature or funds check failed", ErrInvalidTransaction, tx)
	}

	n, err := s.mempool.Add(tx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}

	s.evHandler("state: admitTransaction: mempool[%d]", n)

	s.persist()
	s.signalMining()

	return nil
}

// sendTxToPeers shares the transaction with all known peers. Peers that can't
// be reached are skipped.
func (s *State) sendTxToPeers(ctx context.Context, tx database.Tx) error {
	s.evHandler("state: sendTxToPeers: started")
	defer s.evHandler("state: sendTxToPeers: completed")

	var rejected []string
	for _, pr := range s.RetrieveKnownPeers() {
		status := s.transport.PostTransaction(ctx, pr.Host, tx)
		s.evHandler("state: sendTxToPeers: peer[%s]: %s", pr, status)

		switch status {
		case peer.StatusRejected, peer.StatusConflict:
			rejected = append(rejected, pr.Host)
		}
	}

	if len(rejected) > 0 {
		return fmt.Errorf("%w: %s", ErrPeerRejected, strings.Join(rejected, ", "))
	}

	return nil
}
