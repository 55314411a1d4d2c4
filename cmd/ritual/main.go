// Package main is the entry point for the ritual CLI.
package main

import (
	"os"

	"github.com/ritual-tui/ritual/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
