package wallet_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/blockledger/foundation/blockchain/signature"
	"github.com/ardanlabs/blockledger/foundation/blockchain/wallet"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_SaveLoad(t *testing.T) {
	type table struct {
		name string
		file string
	}

	tt := []table{
		{name: "json", file: "wallet.json"},
		{name: "ecdsa", file: "wallet.ecdsa"},
	}

	t.Log("Given the need to keep a wallet on disk.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				w, err := wallet.Create()
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to create a wallet: %s", failed, testID, err)
				}

				path := filepath.Join(t.TempDir(), "keys", tst.file)
				if err := w.Save(path); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to save the wallet: %s", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to save the wallet.", success, testID)

				got, err := wallet.Load(path)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to load the wallet: %s", failed, testID, err)
				}

				if got != w {
					t.Fatalf("\t%s\tTest %d:\tShould load the same keys.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould load the same keys.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_MismatchedKeys(t *testing.T) {
	t.Log("Given the need to detect a corrupted wallet file.")
	{
		w1, _ := wallet.Create()
		w2, _ := wallet.Create()

		path := filepath.Join(t.TempDir(), "wallet.json")
		data := []byte(`{"public_key":"` + w1.PublicKey + `","private_key":"` + w2.PrivateKey + `"}`)
		if err := os.WriteFile(path, data, 0600); err != nil {
			t.Fatalf("\t%s\tShould be able to write the file: %s", failed, err)
		}

		if _, err := wallet.Load(path); !errors.Is(err, signature.ErrInvalidKey) {
			t.Fatalf("\t%s\tShould reject keys that don't match, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject keys that don't match.", success)
	}
}

func Test_SignTransaction(t *testing.T) {
	t.Log("Given the need to sign a transfer.")
	{
		w, err := wallet.Create()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create a wallet: %s", failed, err)
		}

		tx, err := w.SignTransaction("R", 2.5)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign: %s", failed, err)
		}

		if tx.Sender != w.PublicKey || !tx.VerifySignature() {
			t.Fatalf("\t%s\tShould produce a transaction signed by the wallet.", failed)
		}
		t.Logf("\t%s\tShould produce a transaction signed by the wallet.", success)

		if _, err := (wallet.Wallet{}).SignTransaction("R", 1); !errors.Is(err, wallet.ErrNoKeys) {
			t.Fatalf("\t%s\tShould not sign without keys, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould not sign without keys.", success)
	}
}
