package main

import (
	"os"

	"github.com/spacemeshos/profilesync/cmd/node"
)

func main() {
	if err := node.Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
