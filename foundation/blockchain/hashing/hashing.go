// Package hashing provides the canonical digest functions every other part of
// the blockchain relies on.
package hashing

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// ZeroHash represents a hash code of zeros. It is returned when a value can't
// be encoded.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// =============================================================================

// Sum returns the raw 32 byte sha256 digest of the data.
func Sum(data []byte) []byte {
	hash := sha256.Sum256(data)
	return hash[:]
}

// Bytes returns the 256 bit digest of the data as a hex string.
func Bytes(data []byte) string {
	return hex.EncodeToString(Sum(data))
}

// Value returns the digest of the canonical encoding of the value.
func Value(value any) string {
	data, err := Canonical(value)
	if err != nil {
		return ZeroHash
	}

	return Bytes(data)
}

// Canonical encodes the value as compact JSON with the keys of every object
// sorted. Field order declared on a struct is ignored at every level, so two
// implementations agree on the bytes as long as they agree on the key names.
func Canonical(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	// Decoding into generic values turns every object into a map, which the
	// encoder always writes in sorted key order. UseNumber keeps the number
	// text exactly as the first encoding produced it.
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()

	var generic any
	if err := d.Decode(&generic); err != nil {
		return nil, err
	}

	return json.Marshal(generic)
}
