package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/alii/al/internal/lspserver"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Start the AL language server over stdio",
	Args:  cobra.NoArgs,
	RunE:  runLSP,
}

func init() {
	rootCmd.AddCommand(lspCmd)
}

func runLSP(_ *cobra.Command, _ []string) error {
	srv := lspserver.New(os.Stdin, os.Stdout, os.Stderr)
	return srv.Start()
}
