package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alii/al/internal/compiler"
	"github.com/alii/al/internal/diag"
	"github.com/alii/al/internal/vmrt"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Check, compile, and execute an AL program",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(_ *cobra.Command, args []string) error {
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

	result, diags, ok := parseAndCheck(src)
	if !ok {
		diag.Print(os.Stderr, name, src, diags)
		return fmt.Errorf("%s: failed to check", name)
	}

	prog, compileDiags := compiler.Compile(result)
	if hasErrors(compileDiags) {
		diag.Print(os.Stderr, name, src, compileDiags)
		return fmt.Errorf("%s: failed to compile", name)
	}

	vm := vmrt.New(prog, vmrt.Options{
		IOEnabled:     experimentalIO,
		StdLibEnabled: experimentalStdLib,
		Stdout:        writerAdapter{os.Stdout},
	})
	defer vm.Close()

	val, runErr := vm.Run()
	if runErr != nil {
		return fmt.Errorf("%s: %w", name, runErr)
	}

	if s, ok := inspectResult(val); ok {
		fmt.Println(s)
	}
	return nil
}
