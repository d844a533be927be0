package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine a block for its own wallet.",
	Run:   mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) {
	var resp map[string]any
	if err := send(http.MethodPost, fmt.Sprintf("%s/v1/mine", url), nil, &resp); err != nil {
		log.Fatal(err)
	}

	printJSON(resp)
}
