// Package storage handles all the lower level support for reading and writing
// the ledger state to disk.
package storage

import (
	"errors"
	"os"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("ledger state not found")

// =============================================================================

// writeFile writes the data to a temporary file and renames it over the
// target so a crash never leaves a half written file behind.
func writeFile(path string, data []byte) error {
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}
