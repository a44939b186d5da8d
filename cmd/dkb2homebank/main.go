package main

import (
	"os"

	"github.com/dkb2homebank/dkb2homebank/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
