package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alii/al/internal/diag"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Type-check an AL program without running it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	src, err := readSource(path)
	if err != nil {
		return err
	}
	src = withPrelude(src)

	name := path
	if name == "" {
		name = "<stdin>"
	}

	_, diags, ok := parseAndCheck(src)
	diag.Print(os.Stdout, name, src, diags)
	if !ok {
		return fmt.Errorf("%s: failed to check", name)
	}
	return nil
}
