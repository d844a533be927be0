package storage_test

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
	"github.com/ardanlabs/blockledger/foundation/blockchain/database/storage"
	"github.com/ardanlabs/blockledger/foundation/blockchain/database/storage/memory"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Storage(t *testing.T) {
	type table struct {
		name string
		new  func(t *testing.T) database.Storage
	}

	tt := []table{
		{
			name: "disk",
			new: func(t *testing.T) database.Storage {
				d, err := storage.NewDisk(filepath.Join(t.TempDir(), "blocks"))
				if err != nil {
					t.Fatalf("Should be able to construct disk storage: %v", err)
				}
				return d
			},
		},
		{
			name: "file",
			new: func(t *testing.T) database.Storage {
				f, err := storage.NewFile(filepath.Join(t.TempDir(), "zblock", "blockchain.txt"))
				if err != nil {
					t.Fatalf("Should be able to construct file storage: %v", err)
				}
				return f
			},
		},
		{
			name: "memory",
			new: func(t *testing.T) database.Storage {
				return memory.New()
			},
		},
	}

	long := database.LedgerState{
		Chain: []database.Block{
			database.GenesisBlock(),
			{Index: 1, PreviousHash: "h0", TimeStamp: 10, Trans: []database.Tx{database.NewRewardTx("MINING", "a", 10)}, Proof: 3},
			{Index: 2, PreviousHash: "h1", TimeStamp: 20, Trans: []database.Tx{database.NewTx("a", "b", 1.5, "sig"), database.NewRewardTx("MINING", "a", 10)}, Proof: 9},
		},
		Mempool: []database.Tx{database.NewTx("a", "c", 2, "sig2")},
		Peers:   []string{"localhost:9080", "localhost:9180"},
	}

	short := database.LedgerState{
		Chain:   []database.Block{database.GenesisBlock()},
		Mempool: []database.Tx{},
		Peers:   []string{},
	}

	t.Log("Given the need to persist and restore the ledger state.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				strg := tst.new(t)
				defer strg.Close()

				if _, err := strg.Load(); err == nil {
					t.Fatalf("\t%s\tTest %d:\tShould get an error loading before anything is saved.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get an error loading before anything is saved.", success, testID)

				if err := strg.Save(long); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to save the state: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to save the state.", success, testID)

				got, err := strg.Load()
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to load the state: %v", failed, testID, err)
				}
				if !reflect.DeepEqual(got, long) {
					t.Logf("\t\tgot: %+v", got)
					t.Logf("\t\texp: %+v", long)
					t.Fatalf("\t%s\tTest %d:\tShould load back the saved state.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould load back the saved state.", success, testID)

				if got.Chain[2].Hash() != long.Chain[2].Hash() {
					t.Fatalf("\t%s\tTest %d:\tShould keep block hashes stable across a round trip.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould keep block hashes stable across a round trip.", success, testID)

				if err := strg.Save(short); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to save a replaced chain: %v", failed, testID, err)
				}

				got, err = strg.Load()
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to load the replaced chain: %v", failed, testID, err)
				}
				if len(got.Chain) != 1 || len(got.Mempool) != 0 || len(got.Peers) != 0 {
					t.Logf("\t\tgot: %+v", got)
					t.Fatalf("\t%s\tTest %d:\tShould drop blocks of the replaced chain.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould drop blocks of the replaced chain.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_MemoryFailSaves(t *testing.T) {
	m := memory.New()
	m.FailSaves(errors.New("disk full"))

	if err := m.Save(database.LedgerState{Chain: []database.Block{database.GenesisBlock()}}); err == nil {
		t.Fatalf("Should get the configured save error.")
	}

	if m.Saves() != 0 {
		t.Fatalf("Should not count failed saves.")
	}
}
