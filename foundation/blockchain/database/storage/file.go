package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
)

// File represents the storage implementation that keeps the whole ledger
// state in a single file of three JSON lines: the chain, the open
// transactions and the peers. This implements the database.Storage interface.
type File struct {
	path string
}

// NewFile constructs a File value for use.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	return &File{path: path}, nil
}

// Close in this implementation has nothing to do since the file is
// opened and closed on every call.
func (f *File) Close() error {
	return nil
}

// Save replaces the content of the file with the ledger state.
func (f *File) Save(state database.LedgerState) error {
	var buf bytes.Buffer

	peers := state.Peers
	if peers == nil {
		peers = []string{}
	}

	lines := []any{
		database.CopyChain(state.Chain),
		database.CopyTrans(state.Mempool),
		peers,
	}

	for _, line := range lines {
		data, err := json.Marshal(line)
		if err != nil {
			return err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	return writeFile(f.path, buf.Bytes())
}

// Load reads the ledger state back from the file.
func (f *File) Load() (database.LedgerState, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return database.LedgerState{}, ErrNotFound
		}
		return database.LedgerState{}, err
	}
	defer file.Close()

	var state database.LedgerState
	targets := []any{&state.Chain, &state.Mempool, &state.Peers}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)

	for i, target := range targets {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return database.LedgerState{}, err
			}
			return database.LedgerState{}, fmt.Errorf("line %d missing", i+1)
		}

		if err := json.Unmarshal(scanner.Bytes(), target); err != nil {
			return database.LedgerState{}, fmt.Errorf("line %d: %w", i+1, err)
		}
	}

	if len(state.Chain) == 0 {
		return database.LedgerState{}, ErrNotFound
	}

	return state, nil
}
