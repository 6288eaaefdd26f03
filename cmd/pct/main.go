// Package main is the entry point for the Partner Console TUI. It loads
// configuration, wires services and runs either the Bubble Tea program or
// one of the batch subcommands.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
