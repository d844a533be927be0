package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/ardanlabs/blockledger/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var force bool

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	Run:   generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing key file.")
}

func generateRun(cmd *cobra.Command, args []string) {
	path := getPrivateKeyPath()

	switch _, err := os.Stat(path); {
	case err == nil && !force:
		log.Fatalf("%s already exists, use --force to replace it", path)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		log.Fatal(err)
	}

	w, err := wallet.Create()
	if err != nil {
		log.Fatal(err)
	}

	if err := w.Save(path); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Saved:", path)
	fmt.Println(w.PublicKey)
}
