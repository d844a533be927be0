// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
	"github.com/ardanlabs/blockledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/blockledger/foundation/nameservice"
)

// Ledger is the loaded ledger the commands operate on.
type Ledger struct {
	State   database.LedgerState
	Genesis genesis.Genesis
	NS      *nameservice.NameService
}

// name returns the account name for the participant or the short key.
func (l Ledger) name(participant string) string {
	if name := l.NS.Lookup(participant); name != participant {
		return name
	}
	if len(participant) > 16 {
		return participant[:16] + "..."
	}
	return participant
}

func (l Ledger) latestHash() string {
	if len(l.State.Chain) == 0 {
		return ""
	}
	return l.State.Chain[len(l.State.Chain)-1].Hash()
}
