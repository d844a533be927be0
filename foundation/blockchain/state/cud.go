package state

import (
	"github.com/ardanlabs/blockledger/foundation/blockchain/peer"
)

// AddKnownPeer provides the ability to add a new peer.
func (s *State) AddKnownPeer(peer peer.Peer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.knownPeers.Add(peer) {
		return false
	}

	s.evHandler("state: AddKnownPeer: peer[%s]", peer)
	s.persist()

	return true
}

// RemoveKnownPeer removes the peer from the set of known peers.
func (s *State) RemoveKnownPeer(peer peer.Peer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.knownPeers.Remove(peer) {
		return false
	}

	s.evHandler("state: RemoveKnownPeer: peer[%s]", peer)
	s.persist()

	return true
}
