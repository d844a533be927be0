// Package nameservice reads a folder of wallet files and creates a name
// service lookup for the public keys they hold.
package nameservice

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/blockledger/foundation/blockchain/wallet"
)

// NameService maintains a map of public keys for name lookup.
type NameService struct {
	names map[string]string
}

// New constructs a name service with the wallets found under the root
// folder. The name of a key is the file name without its extension. A
// missing folder yields an empty name service.
func New(root string) (*NameService, error) {
	ns := NameService{
		names: make(map[string]string),
	}

	fn := func(fileName string, d fs.DirEntry, err error) error {
		if err != nil {
			if fileName == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return fmt.Errorf("walkdir failure: %w", err)
		}

		ext := filepath.Ext(fileName)
		if d.IsDir() || (ext != ".ecdsa" && ext != ".json") {
			return nil
		}

		w, err := wallet.Load(fileName)
		if err != nil {
			return fmt.Errorf("%s: %w", fileName, err)
		}

		ns.names[w.PublicKey] = strings.TrimSuffix(filepath.Base(fileName), ext)

		return nil
	}

	if err := filepath.WalkDir(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified public key. Unknown keys are
// returned as is.
func (ns *NameService) Lookup(publicKey string) string {
	if ns == nil {
		return publicKey
	}

	name, exists := ns.names[publicKey]
	if !exists {
		return publicKey
	}
	return name
}

// Copy returns a copy of the map of public keys and names.
func (ns *NameService) Copy() map[string]string {
	cpy := make(map[string]string, len(ns.names))
	for publicKey, name := range ns.names {
		cpy[publicKey] = name
	}
	return cpy
}
