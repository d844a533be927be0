package public

import (
	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
)

// walletInfo is the response for the wallet endpoints.
type walletInfo struct {
	PublicKey  string  `json:"public_key"`
	PrivateKey string  `json:"private_key"`
	Funds      float64 `json:"funds"`
}

// newTx is a transfer signed by the node's own wallet.
type newTx struct {
	Recipient string  `json:"recipient" validate:"required"`
	Amount    float64 `json:"amount" validate:"gt=0"`
}

// signedTx is a transfer signed by an outside wallet.
type signedTx struct {
	Sender    string  `json:"sender" validate:"required,hexadecimal"`
	Recipient string  `json:"recipient" validate:"required"`
	Amount    float64 `json:"amount" validate:"gt=0"`
	Signature string  `json:"signature" validate:"required,hexadecimal"`
}

// toTx converts the request into a chain transaction.
func (stx signedTx) toTx() database.Tx {
	return database.NewTx(stx.Sender, stx.Recipient, stx.Amount, stx.Signature)
}

// tx is a transaction with the names of the parties when they are known.
type tx struct {
	Sender        string  `json:"sender"`
	SenderName    string  `json:"sender_name"`
	Recipient     string  `json:"recipient"`
	RecipientName string  `json:"recipient_name"`
	Amount        float64 `json:"amount"`
	Signature     string  `json:"signature"`
}

// block is a block with the named transactions.
type block struct {
	Index        uint64 `json:"index"`
	Hash         string `json:"hash"`
	PreviousHash string `json:"previous_hash"`
	TimeStamp    uint64 `json:"timestamp"`
	Proof        uint64 `json:"proof"`
	Transactions []tx   `json:"transactions"`
}

// balanceInfo is the response for the balance endpoint.
type balanceInfo struct {
	Participant string  `json:"participant"`
	Name        string  `json:"name"`
	Funds       float64 `json:"funds"`
	Uncommitted int     `json:"uncommitted"`
	LatestBlock string  `json:"latest_block"`
}

// addPeer is the request to add a peer node.
type addPeer struct {
	Node string `json:"node" validate:"required,hostname_port"`
}
