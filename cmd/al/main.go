// Command al is AL's batch compiler and tooling entry point (§6): run,
// check, build, fmt, repl, and lsp, wired through cobra the way
// CWBudde-go-dws/cmd/dwscript wires its own subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/alii/al/cmd/al/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
