// Package main is the devhub command-line client.
package main

import (
	"os"

	"github.com/atinyakov/DevHub/cmd/client/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
