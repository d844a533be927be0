package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/blockledger/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var showPrivate bool

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the keys of the wallet",
	Run:   accountRun,
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.Flags().BoolVar(&showPrivate, "private", false, "Also print the private key.")
}

func accountRun(cmd *cobra.Command, args []string) {
	path := getPrivateKeyPath()

	w, err := wallet.Load(path)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("File:", path)
	fmt.Println("Public:", w.PublicKey)
	if showPrivate {
		fmt.Println("Private:", w.PrivateKey)
	}
}
