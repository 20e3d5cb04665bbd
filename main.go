package main

import (
	"os"

	"github.com/typedex/dexgraph/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
