package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alii/al/internal/diag"
	"github.com/alii/al/internal/fmtprinter"
)

var (
	fmtCheck bool
	fmtDiff  bool
	fmtStdin bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [<path>]",
	Short: "Format an AL source file",
	Long: `fmt parses a file (or stdin with --stdin) and rewrites it in
canonical form, overwriting the file unless --check or --diff is given.

  al fmt file.al            # reformat file.al in place
  al fmt --check file.al    # exit nonzero if file.al isn't already formatted
  al fmt --diff file.al     # print a diff instead of writing
  al fmt --stdin < file.al  # format from stdin, write to stdout`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "report whether the file is formatted, without writing")
	fmtCmd.Flags().BoolVar(&fmtDiff, "diff", false, "print a diff instead of writing the file")
	fmtCmd.Flags().BoolVar(&fmtStdin, "stdin", false, "read source from stdin and write the result to stdout")
}

func runFmt(_ *cobra.Command, args []string) error {
	if fmtCheck && fmtDiff {
		return fmt.Errorf("cannot use --check and --diff together")
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	if fmtStdin {
		path = ""
	} else if path == "" {
		return fmt.Errorf("fmt requires a file path (or --stdin)")
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
		return fmt.Errorf("%s: failed to parse, left unchanged", name)
	}

	formatted := fmtprinter.Format(file)
	changed := formatted != src

	switch {
	case fmtStdin:
		fmt.Print(formatted)
		return nil

	case fmtCheck:
		if changed {
			return fmt.Errorf("%s is not formatted", name)
		}
		return nil

	case fmtDiff:
		if changed {
			printDiff(name, src, formatted)
		}
		return nil

	default:
		if changed {
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
		}
		return nil
	}
}

// printDiff renders a simple line-by-line diff, matching the teacher's own
// fmt --diff output rather than shelling out to a diff binary.
func printDiff(name, original, formatted string) {
	fmt.Printf("--- %s (original)\n", name)
	fmt.Printf("+++ %s (formatted)\n", name)

	origLines := strings.Split(original, "\n")
	fmtLines := strings.Split(formatted, "\n")

	max := len(origLines)
	if len(fmtLines) > max {
		max = len(fmtLines)
	}
	for i := 0; i < max; i++ {
		var o, f string
		if i < len(origLines) {
			o = origLines[i]
		}
		if i < len(fmtLines) {
			f = fmtLines[i]
		}
		if o == f {
			continue
		}
		if i < len(origLines) {
			fmt.Printf("- %s\n", o)
		}
		if i < len(fmtLines) {
			fmt.Printf("+ %s\n", f)
		}
	}
}
