package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alii/al/internal/diag"
	"github.com/alii/al/internal/fmtprinter"
)

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Parse an AL program and print its canonical source form",
	Long: `build parses the given file and re-prints it through the
formatter, the way a build step would emit a canonical artifact. It does
not type-check or compile to bytecode; use "al check" or "al run" for
that.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(_ *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	src, err := readSource(path)
	if err != nil {
		return err
	}

	name := path
	if name == "" {
		name = "<stdin>"
	}

	file, diags, ok := parseOnly(src)
	if !ok {
		diag.Print(os.Stderr, name, src, diags)
		return fmt.Errorf("%s: failed to parse", name)
	}

	fmt.Print(fmtprinter.Format(file))
	return nil
}
