// Package wallet manages the key pair that identifies a participant and signs
// the transactions it sends.
package wallet

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
	"github.com/ardanlabs/blockledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

// ecdsaExt is the extension of a raw key file holding only the private key.
const ecdsaExt = ".ecdsa"

// ErrNoKeys is returned when a wallet without keys is asked to sign.
var ErrNoKeys = errors.New("wallet has no keys")

// Wallet holds the hex encoded key pair of a participant. The public key is
// the participant's identity on the chain.
type Wallet struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// Create generates a new key pair.
func Create() (Wallet, error) {
	priv, pub, err := signature.GenerateKeyPair()
	if err != nil {
		return Wallet{}, fmt.Errorf("generate key pair: %w", err)
	}

	return Wallet{PublicKey: pub, PrivateKey: priv}, nil
}

// FromPrivateKey rebuilds the wallet for the hex private key.
func FromPrivateKey(privateKey string) (Wallet, error) {
	pub, err := signature.PublicKey(privateKey)
	if err != nil {
		return Wallet{}, err
	}

	return Wallet{PublicKey: pub, PrivateKey: privateKey}, nil
}

// Load reads the wallet from disk. Files ending in .ecdsa hold only the hex
// private key, any other file holds the JSON form of the wallet.
func Load(path string) (Wallet, error) {
	if filepath.Ext(path) == ecdsaExt {
		pk, err := crypto.LoadECDSA(path)
		if err != nil {
			return Wallet{}, fmt.Errorf("load key file: %w", err)
		}
		return FromPrivateKey(hex.EncodeToString(crypto.FromECDSA(pk)))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Wallet{}, fmt.Errorf("read wallet: %w", err)
	}

	var w Wallet
	if err := json.Unmarshal(data, &w); err != nil {
		return Wallet{}, fmt.Errorf("decode wallet: %w", err)
	}

	// The public key must belong to the private key.
	pub, err := signature.PublicKey(w.PrivateKey)
	if err != nil {
		return Wallet{}, err
	}

	if pub != w.PublicKey {
		return Wallet{}, fmt.Errorf("%w: public key does not match private key", signature.ErrInvalidKey)
	}

	return w, nil
}

// Save writes the wallet to disk using the format selected by the file
// extension.
func (w Wallet) Save(path string) error {
	if w.PrivateKey == "" {
		return ErrNoKeys
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if filepath.Ext(path) == ecdsaExt {
		pk, err := crypto.HexToECDSA(w.PrivateKey)
		if err != nil {
			return signature.ErrInvalidKey
		}
		return crypto.SaveECDSA(path, pk)
	}

	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// SignTransaction produces a transaction moving the amount from this wallet
// to the recipient.
func (w Wallet) SignTransaction(recipient string, amount float64) (database.Tx, error) {
	if w.PrivateKey == "" {
		return database.Tx{}, ErrNoKeys
	}

	sig, err := signature.Sign(w.PrivateKey, w.PublicKey, recipient, amount)
	if err != nil {
		return database.Tx{}, err
	}

	return database.NewTx(w.PublicKey, recipient, amount, sig), nil
}
