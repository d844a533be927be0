// Package ipfs implements the ability to publish the ledger state as a
// snapshot to an IPFS node and read it back.
package ipfs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
	shell "github.com/ipfs/go-ipfs-api"
)

// ErrNotFound is returned by Load when nothing has been published yet.
var ErrNotFound = errors.New("ledger state not found")

// IPFS represents the storage implementation that adds every saved ledger
// state to IPFS and keeps the content id of the latest snapshot in a local
// pointer file. This implements the database.Storage interface.
type IPFS struct {
	sh          *shell.Shell
	pointerPath string

	mu  sync.Mutex
	cid string
}

// New constructs an IPFS value that talks to the node API at the url, for
// example "localhost:5001".
func New(url string, pointerPath string) (*IPFS, error) {
	sh := shell.NewShell(url)
	if !sh.IsUp() {
		return nil, fmt.Errorf("ipfs node at %s is not reachable", url)
	}

	if err := os.MkdirAll(filepath.Dir(pointerPath), 0755); err != nil {
		return nil, err
	}

	ipfs := IPFS{
		sh:          sh,
		pointerPath: pointerPath,
	}

	data, err := os.ReadFile(pointerPath)
	switch {
	case err == nil:
		ipfs.cid = strings.TrimSpace(string(data))
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	return &ipfs, nil
}

// Close in this implementation has nothing to do since the shell holds no
// open resources.
func (i *IPFS) Close() error {
	return nil
}

// CID returns the content id of the latest snapshot.
func (i *IPFS) CID() string {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.cid
}

// Save adds the ledger state to IPFS, unpins the previous snapshot and
// records the new content id.
func (i *IPFS) Save(state database.LedgerState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	cid, err := i.sh.Add(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("add snapshot: %w", err)
	}

	if err := os.WriteFile(i.pointerPath, []byte(cid), 0600); err != nil {
		return fmt.Errorf("write pointer: %w", err)
	}

	i.mu.Lock()
	prev := i.cid
	i.cid = cid
	i.mu.Unlock()

	if prev != "" && prev != cid {
		i.sh.Unpin(prev)
	}

	return nil
}

// Load reads the latest snapshot back from IPFS.
func (i *IPFS) Load() (database.LedgerState, error) {
	cid := i.CID()
	if cid == "" {
		return database.LedgerState{}, ErrNotFound
	}

	r, err := i.sh.Cat(cid)
	if err != nil {
		return database.LedgerState{}, fmt.Errorf("cat snapshot %s: %w", cid, err)
	}
	defer r.Close()

	var state database.LedgerState
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return database.LedgerState{}, fmt.Errorf("decode snapshot %s: %w", cid, err)
	}

	if len(state.Chain) == 0 {
		return database.LedgerState{}, ErrNotFound
	}

	return state, nil
}
