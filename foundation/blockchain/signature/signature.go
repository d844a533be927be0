// Package signature provides helper functions for handling the blockchain
// signature needs. Keys are secp256k1 and travel as hex strings, so a public
// key doubles as the account identifier for the party that owns it.
package signature

import (
	"encoding/hex"
	"errors"
	"strconv"

	"github.com/ardanlabs/blockledger/foundation/blockchain/hashing"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidKey is returned when a hex string can't be imported as a key.
var ErrInvalidKey = errors.New("invalid key")

// =============================================================================

// GenerateKeyPair produces a fresh key pair. The private key is the hex form
// of the 32 byte scalar and the public key the hex form of the uncompressed
// 65 byte point.
func GenerateKeyPair() (privateKey string, publicKey string, err error) {
	pk, err := crypto.GenerateKey()
	if err != nil {
		return "", "", err
	}

	privateKey = hex.EncodeToString(crypto.FromECDSA(pk))
	publicKey = hex.EncodeToString(crypto.FromECDSAPub(&pk.PublicKey))

	return privateKey, publicKey, nil
}

// PublicKey derives the hex public key for the specified hex private key.
func PublicKey(privateKey string) (string, error) {
	pk, err := crypto.HexToECDSA(privateKey)
	if err != nil {
		return "", ErrInvalidKey
	}

	return hex.EncodeToString(crypto.FromECDSAPub(&pk.PublicKey)), nil
}

// Sign produces the hex signature for the transfer of the amount from the
// sender to the recipient.
func Sign(privateKey string, sender string, recipient string, amount float64) (string, error) {
	pk, err := crypto.HexToECDSA(privateKey)
	if err != nil {
		return "", ErrInvalidKey
	}

	sig, err := crypto.Sign(digest(sender, recipient, amount), pk)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(sig), nil
}

// Verify checks the signature was produced by the private key belonging to
// the sender for this exact sender, recipient and amount. Any malformed key
// or signature is reported as a failed verification.
func Verify(sender string, recipient string, amount float64, sig string) bool {
	pubKey, err := hex.DecodeString(sender)
	if err != nil {
		return false
	}

	if _, err := crypto.UnmarshalPubkey(pubKey); err != nil {
		return false
	}

	sigBytes, err := hex.DecodeString(sig)
	if err != nil || len(sigBytes) != crypto.SignatureLength {
		return false
	}

	// The recovery id is not part of the verification.
	return crypto.VerifySignature(pubKey, digest(sender, recipient, amount), sigBytes[:crypto.RecoveryIDOffset])
}

// FormatAmount returns the string form of an amount used when signing. It is
// the shortest decimal representation that parses back to the same value.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// =============================================================================

// digest returns the 32 byte hash of the concatenated string forms of the
// transfer fields.
func digest(sender string, recipient string, amount float64) []byte {
	return hashing.Sum([]byte(sender + recipient + FormatAmount(amount)))
}
