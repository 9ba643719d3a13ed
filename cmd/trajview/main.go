// Package main is the entry point for the trajview CLI/TUI.
package main

import (
	"os"

	"github.com/watchfire-io/trajview/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
