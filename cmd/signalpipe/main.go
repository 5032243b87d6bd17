package main

import (
	"os"

	"github.com/jwlim/signalpipe/cmd/signalpipe/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
