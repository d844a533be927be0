package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/ardanlabs/blockledger/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

type balance struct {
	Participant string  `json:"participant"`
	Name        string  `json:"name"`
	Funds       float64 `json:"funds"`
	Uncommitted int     `json:"uncommitted"`
	LatestBlock string  `json:"latest_block"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	w, err := wallet.Load(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("For Account:", w.PublicKey)

	var b balance
	if err := send(http.MethodGet, fmt.Sprintf("%s/v1/balance/%s", url, w.PublicKey), nil, &b); err != nil {
		log.Fatal(err)
	}

	fmt.Println(b.Funds)
}
