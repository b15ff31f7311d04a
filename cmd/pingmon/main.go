package main

import (
	"os"

	"github.com/probelab/pingmon/cmd/pingmon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
