package database_test

import (
	"encoding/json"
	"testing"

	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
	"github.com/ardanlabs/blockledger/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const pkHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"

// =============================================================================

func Test_TxEncoding(t *testing.T) {
	t.Log("Given the need to encode transactions in a fixed field order.")
	{
		tx := database.NewTx("s", "r", 2.5, "sig")

		data, err := json.Marshal(tx)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to marshal the transaction: %v", failed, err)
		}

		const exp = `{"sender":"s","recipient":"r","amount":2.5,"signature":"sig"}`
		if string(data) != exp {
			t.Logf("\t\tgot: %s", data)
			t.Logf("\t\texp: %s", exp)
			t.Fatalf("\t%s\tShould encode sender, recipient, amount, signature in order.", failed)
		}
		t.Logf("\t%s\tShould encode sender, recipient, amount, signature in order.", success)

		var got database.Tx
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("\t%s\tShould be able to unmarshal the transaction: %v", failed, err)
		}
		if got != tx {
			t.Fatalf("\t%s\tShould reconstruct an identical transaction.", failed)
		}
		t.Logf("\t%s\tShould reconstruct an identical transaction.", success)
	}
}

func Test_BlockHash(t *testing.T) {
	t.Log("Given the need to hash blocks deterministically.")
	{
		trans := []database.Tx{
			database.NewTx("a", "b", 1, "sig1"),
			database.NewRewardTx("MINING", "a", 10),
		}

		b1 := database.Block{Index: 1, PreviousHash: "abc", TimeStamp: 100, Trans: trans, Proof: 7}
		b2 := database.Block{Index: 1, PreviousHash: "abc", TimeStamp: 100, Trans: database.CopyTrans(trans), Proof: 7}

		if b1.Hash() != b2.Hash() {
			t.Fatalf("\t%s\tShould get the same hash for field identical blocks.", failed)
		}
		t.Logf("\t%s\tShould get the same hash for field identical blocks.", success)

		b2.Proof = 8
		if b1.Hash() == b2.Hash() {
			t.Fatalf("\t%s\tShould get a different hash when the proof changes.", failed)
		}
		t.Logf("\t%s\tShould get a different hash when the proof changes.", success)

		g1 := database.GenesisBlock()
		g2 := database.Block{}
		if g1.Hash() != g2.Hash() {
			t.Fatalf("\t%s\tShould hash nil and empty transactions the same.", failed)
		}
		t.Logf("\t%s\tShould hash nil and empty transactions the same.", success)
	}
}

func Test_BlockCopy(t *testing.T) {
	block := database.Block{Index: 1, Trans: []database.Tx{database.NewTx("a", "b", 1, "x")}}

	cpy := block.Copy()
	cpy.Trans[0].Amount = 50

	if block.Trans[0].Amount != 1 {
		t.Fatalf("Should not alias the transactions of the original block.")
	}

	if got := len(block.ProofTrans()); got != 0 {
		t.Fatalf("Should exclude the reward from the proof transactions, got %d", got)
	}
}

func Test_TxParty(t *testing.T) {
	tx := database.NewTx("s", "r", 1, "")

	if tx.Party(database.PartySender) != "s" {
		t.Fatalf("Should select the sender.")
	}
	if tx.Party(database.PartyRecipient) != "r" {
		t.Fatalf("Should select the recipient.")
	}
}

func Test_TxEquals(t *testing.T) {
	a := database.NewTx("s", "r", 1, "sig1")

	if !a.Equals(database.NewTx("s", "r", 2, "sig1")) {
		t.Fatalf("Should match on sender, recipient and signature.")
	}
	if a.Equals(database.NewTx("s", "r", 1, "sig2")) {
		t.Fatalf("Should not match when the signatures differ.")
	}
}

func Test_TxVerifySignature(t *testing.T) {
	sender, err := signature.PublicKey(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to derive the public key: %v", err)
	}

	sig, err := signature.Sign(pkHexKey, sender, "r", 3)
	if err != nil {
		t.Fatalf("Should be able to sign: %v", err)
	}

	if !database.NewTx(sender, "r", 3, sig).VerifySignature() {
		t.Fatalf("Should verify a properly signed transaction.")
	}
	if database.NewRewardTx("MINING", sender, 10).VerifySignature() {
		t.Fatalf("Should not verify an unsigned reward transaction.")
	}
}
