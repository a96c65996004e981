package main

import (
	"os"

	"github.com/katalvlaran/ctmcfit/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
