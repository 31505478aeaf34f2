// Package main provides the CLI entry point for the mmm tool.
package main

import (
	"fmt"
	"os"

	"github.com/mkelk/mmm-experiments/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
