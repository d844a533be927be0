// This program performs administrative tasks against a stopped node's ledger.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/blockledger/app/tooling/admin/commands"
	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
	"github.com/ardanlabs/blockledger/foundation/blockchain/database/storage"
	"github.com/ardanlabs/blockledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/blockledger/foundation/logger"
	"github.com/ardanlabs/blockledger/foundation/nameservice"
	"github.com/ardanlabs/conf/v3"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		Args        conf.Args
		GenesisFile string `conf:"default:zblock/genesis.json"`
		Storage     string `conf:"default:disk"`
		DBPath      string `conf:"default:zblock/blocks/"`
		Accounts    string `conf:"default:zblock/accounts/"`
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "ledger administration",
		},
	}

	const prefix = "ADMIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	gen, err := genesis.Load(cfg.GenesisFile)
	if err != nil {
		return fmt.Errorf("loading genesis: %w", err)
	}

	ns, err := nameservice.New(cfg.Accounts)
	if err != nil {
		return fmt.Errorf("loading name service: %w", err)
	}

	strg, err := openStorage(cfg.Storage, cfg.DBPath)
	if err != nil {
		return err
	}
	defer strg.Close()

	ls, err := strg.Load()
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	log.Infow("admin", "status", "ledger loaded", "blocks", len(ls.Chain), "mempool", len(ls.Mempool))

	return processCommands(cfg.Args, commands.Ledger{State: ls, Genesis: gen, NS: ns})
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, ldg commands.Ledger) error {
	switch args.Num(0) {
	case "bals":
		if err := commands.Balances(args.Num(1), ldg); err != nil {
			return fmt.Errorf("getting balances: %w", err)
		}
	case "trans":
		if err := commands.Transactions(args.Num(1), ldg); err != nil {
			return fmt.Errorf("getting transactions: %w", err)
		}
	case "verify":
		if err := commands.Verify(ldg); err != nil {
			return fmt.Errorf("verifying chain: %w", err)
		}
	default:
		fmt.Println("bals [participant]:  show the confirmed balances")
		fmt.Println("trans [participant]: show the confirmed transactions")
		fmt.Println("verify:              validate the stored chain")
	}

	return nil
}

// openStorage opens the file based persistence the node was using.
func openStorage(kind string, dbPath string) (database.Storage, error) {
	switch kind {
	case "disk":
		return storage.NewDisk(dbPath)
	case "file":
		return storage.NewFile(dbPath)
	}

	return nil, fmt.Errorf("storage %q can't be opened offline", kind)
}
