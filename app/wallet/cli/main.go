package main

import (
	"github.com/ardanlabs/blockledger/app/wallet/cli/cmd"
)

func main() {
	cmd.Execute()
}
