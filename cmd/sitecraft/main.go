// Package main provides the entry point for the SiteCraft CLI.
package main

import (
	"os"

	"github.com/utkarshverma439/SiteCraft-AI/cmd/sitecraft/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
