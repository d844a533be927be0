package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"

	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
)

// Disk represents the storage implementation for reading and storing blocks
// in their own separate files on disk. The open transactions and the peers
// live in their own files next to the blocks. This implements the
// database.Storage interface.
type Disk struct {
	dbPath string
}

// NewDisk constructs a Disk value for use.
func NewDisk(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, err
	}

	return &Disk{dbPath: dbPath}, nil
}

// Close in this implementation has nothing to do since every file is
// immediately closed after being written.
func (d *Disk) Close() error {
	return nil
}

// Save writes every block to a file labeled with the block number followed
// by the open transactions and the peers. Block files beyond the end of the
// chain are left over from a replaced chain and get removed.
func (d *Disk) Save(state database.LedgerState) error {
	for _, block := range state.Chain {
		if err := d.writeJSON(d.blockPath(block.Index), block); err != nil {
			return fmt.Errorf("write block %d: %w", block.Index, err)
		}
	}

	for num := uint64(len(state.Chain)); ; num++ {
		err := os.Remove(d.blockPath(num))
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return fmt.Errorf("remove block %d: %w", num, err)
		}
	}

	if err := d.writeJSON(path.Join(d.dbPath, "mempool.json"), database.CopyTrans(state.Mempool)); err != nil {
		return fmt.Errorf("write mempool: %w", err)
	}

	peers := state.Peers
	if peers == nil {
		peers = []string{}
	}
	if err := d.writeJSON(path.Join(d.dbPath, "peers.json"), peers); err != nil {
		return fmt.Errorf("write peers: %w", err)
	}

	return nil
}

// Load reads the blocks starting with the genesis block until no more block
// files exist, then reads the open transactions and the peers.
func (d *Disk) Load() (database.LedgerState, error) {
	var state database.LedgerState

	iter := DiskIterator{disk: d}
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return database.LedgerState{}, err
		}
		state.Chain = append(state.Chain, block)
	}

	if len(state.Chain) == 0 {
		return database.LedgerState{}, ErrNotFound
	}

	if err := d.readJSON(path.Join(d.dbPath, "mempool.json"), &state.Mempool); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return database.LedgerState{}, fmt.Errorf("read mempool: %w", err)
	}

	if err := d.readJSON(path.Join(d.dbPath, "peers.json"), &state.Peers); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return database.LedgerState{}, fmt.Errorf("read peers: %w", err)
	}

	return state, nil
}

// GetBlock searches the blockchain on disk to locate and return the
// contents of the specified block by number.
func (d *Disk) GetBlock(num uint64) (database.Block, error) {
	var block database.Block
	if err := d.readJSON(d.blockPath(num), &block); err != nil {
		return database.Block{}, err
	}

	return block, nil
}

// blockPath forms the path to the specified block.
func (d *Disk) blockPath(blockNum uint64) string {
	name := strconv.FormatUint(blockNum, 10)
	return path.Join(d.dbPath, fmt.Sprintf("%s.json", name))
}

// writeJSON marshals the value in a human readable format and writes it.
func (d *Disk) writeJSON(filePath string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}

	return writeFile(filePath, data)
}

// readJSON decodes the content of the file into the value.
func (d *Disk) readJSON(filePath string, value any) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(value)
}

// =============================================================================

// DiskIterator represents the iteration implementation for walking
// through and reading blocks on disk.
type DiskIterator struct {
	disk    *Disk  // Access to the Disk storage API.
	current uint64 // Current block number being iterated over.
	eoc     bool   // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block from disk.
func (di *DiskIterator) Next() (database.Block, error) {
	if di.eoc {
		return database.Block{}, errors.New("end of chain")
	}

	block, err := di.disk.GetBlock(di.current)
	if errors.Is(err, fs.ErrNotExist) {
		di.eoc = true
		return database.Block{}, nil
	}
	di.current++

	return block, err
}

// Done returns the end of chain value.
func (di *DiskIterator) Done() bool {
	return di.eoc
}
