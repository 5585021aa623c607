// Package main is the entry point for the jewel-pricing CLI.
package main

import (
	"os"

	"jewel-pricing/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
