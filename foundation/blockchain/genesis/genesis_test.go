package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/blockledger/foundation/blockchain/genesis"
)

func Test_Load(t *testing.T) {
	dir := t.TempDir()

	gen, err := genesis.Load(filepath.Join(dir, "missing.json"))
	if err != nil {
		t.Fatalf("Should get the defaults for a missing file: %v", err)
	}
	if gen != genesis.Default() {
		t.Fatalf("Should get the default genesis, got %+v", gen)
	}

	path := filepath.Join(dir, "genesis.json")
	if err := os.WriteFile(path, []byte(`{"difficulty":3,"mining_reward":25}`), 0600); err != nil {
		t.Fatalf("Should be able to write the genesis file: %v", err)
	}

	gen, err = genesis.Load(path)
	if err != nil {
		t.Fatalf("Should be able to load the genesis file: %v", err)
	}
	if gen.Difficulty != 3 || gen.MiningReward != 25 || gen.MiningSender != genesis.DefaultMiningSender {
		t.Fatalf("Should merge the file over the defaults, got %+v", gen)
	}

	if err := os.WriteFile(path, []byte(`{`), 0600); err != nil {
		t.Fatalf("Should be able to write the genesis file: %v", err)
	}
	if _, err := genesis.Load(path); err == nil {
		t.Fatalf("Should get an error for a malformed file.")
	}
}
