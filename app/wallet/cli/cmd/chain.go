package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/ardanlabs/blockledger/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var all bool

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the blocks holding your transactions.",
	Run:   chainRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
	chainCmd.Flags().BoolVar(&all, "all", false, "Print every block of the chain.")
}

func chainRun(cmd *cobra.Command, args []string) {
	path := fmt.Sprintf("%s/v1/chain", url)

	if !all {
		w, err := wallet.Load(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}
		path = fmt.Sprintf("%s/%s", path, w.PublicKey)
	}

	var blocks []map[string]any
	if err := send(http.MethodGet, path, nil, &blocks); err != nil {
		log.Fatal(err)
	}

	printJSON(blocks)
}
