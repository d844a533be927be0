package database

import (
	"fmt"

	"github.com/ardanlabs/blockledger/foundation/blockchain/signature"
)

// Party selects which side of a transaction is being looked at.
type Party int

// Set of parties that take part in a transaction.
const (
	PartySender Party = iota
	PartyRecipient
)

// =============================================================================

// Tx is the transactional information between two parties. The field order
// is part of the wire and hashing contract and must not change.
type Tx struct {
	Sender    string  `json:"sender"`    // Public key of the account paying the amount.
	Recipient string  `json:"recipient"` // Public key or external id of the account receiving the amount.
	Amount    float64 `json:"amount"`    // Monetary value moved by the transaction.
	Signature string  `json:"signature"` // Hex signature by the sender, empty for a mining reward.
}

// NewTx constructs a new transaction.
func NewTx(sender string, recipient string, amount float64, sig string) Tx {
	return Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		Signature: sig,
	}
}

// NewRewardTx constructs the unsigned transaction that pays the miner of a
// block.
func NewRewardTx(miningSender string, beneficiary string, reward float64) Tx {
	return Tx{
		Sender:    miningSender,
		Recipient: beneficiary,
		Amount:    reward,
	}
}

// Party returns the account id for the specified side of the transaction.
func (tx Tx) Party(p Party) string {
	switch p {
	case PartyRecipient:
		return tx.Recipient
	default:
		return tx.Sender
	}
}

// VerifySignature checks the transaction was signed by the sender.
func (tx Tx) VerifySignature() bool {
	return signature.Verify(tx.Sender, tx.Recipient, tx.Amount, tx.Signature)
}

// Equals reports whether two transactions are the same transfer. They match
// on sender, recipient and signature.
func (tx Tx) Equals(otherTx Tx) bool {
	return tx.Sender == otherTx.Sender &&
		tx.Recipient == otherTx.Recipient &&
		tx.Signature == otherTx.Signature
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%s", short(tx.Sender), short(tx.Recipient), signature.FormatAmount(tx.Amount))
}

// =============================================================================

// short trims long hex identifiers for log output.
func short(id string) string {
	if len(id) > 16 {
		return id[:16]
	}
	return id
}
