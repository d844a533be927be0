package peer_test

import (
	"testing"

	"github.com/ardanlabs/blockledger/foundation/blockchain/peer"
)

func Test_CRUD(t *testing.T) {
	type table struct {
		name  string
		peers []peer.Peer
	}

	tt := []table{
		{
			name:  "basic",
			peers: []peer.Peer{{Host: "host3"}, {Host: "host1"}, {Host: "host2"}},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			ps := peer.NewPeerSet()

			for _, peer := range tst.peers {
				if !ps.Add(peer) {
					t.Fatalf("Test %s:\tShould be able to add peer %s.", tst.name, peer)
				}
			}

			if ps.Add(tst.peers[0]) {
				t.Fatalf("Test %s:\tShould not add the same peer twice.", tst.name)
			}

			peers := ps.Copy("")
			if len(peers) != len(tst.peers) {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers))
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			peers = ps.Copy("host2")
			if len(peers) != len(tst.peers)-1 {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers)-1)
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			hosts := ps.Hosts()
			if hosts[0] != "host1" || hosts[2] != "host3" {
				t.Fatalf("Test %s:\tShould get the hosts in sorted order, got %v.", tst.name, hosts)
			}

			if !ps.Remove(peer.New("host1")) {
				t.Fatalf("Test %s:\tShould be able to remove a known peer.", tst.name)
			}
			if ps.Remove(peer.New("host1")) {
				t.Fatalf("Test %s:\tShould report a missing peer on remove.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_StatusString(t *testing.T) {
	tt := map[peer.Status]string{
		peer.StatusAccepted:    "accepted",
		peer.StatusRejected:    "rejected",
		peer.StatusConflict:    "conflict",
		peer.StatusUnreachable: "unreachable",
	}

	for status, exp := range tt {
		if status.String() != exp {
			t.Errorf("got: %s, exp: %s", status, exp)
		}
	}
}
