package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/bytecode"
	"github.com/alii/al/internal/checker"
	"github.com/alii/al/internal/diag"
	"github.com/alii/al/internal/parser"
	"github.com/alii/al/internal/stdlib"
)

// readSource reads path, or stdin when path is "-" or empty.
func readSource(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// withPrelude prepends the --experimental-std-lib prelude when requested.
func withPrelude(src string) string {
	if experimentalStdLib {
		return stdlib.Prepend(src)
	}
	return src
}

// hasErrors reports whether any diagnostic in ds is an error (not just a
// warning) — diag.Bag.HasErrors for a plain slice.
func hasErrors(ds []diag.Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == diag.SeverityError {
			return true
		}
	}
	return false
}

// parseAndCheck runs the scan/parse/check stages and reports diagnostics
// from whichever stage produced them; parse errors short-circuit checking
// since the checker assumes a syntactically valid file (§4.3).
func parseAndCheck(src string) (*checker.Result, []diag.Diagnostic, bool) {
	file, diags := parser.Parse(src)
	if hasErrors(diags) {
		return nil, diags, false
	}
	result, checkDiags := checker.Check(file)
	all := append(diags, checkDiags...)
	return result, all, !hasErrors(all)
}

// parseOnly runs just the scan/parse stage, for build/fmt which only need
// the AST.
func parseOnly(src string) (*ast.File, []diag.Diagnostic, bool) {
	file, diags := parser.Parse(src)
	return file, diags, !hasErrors(diags)
}

// writerAdapter satisfies vmrt.Writer for an arbitrary io.Writer, the way
// replcmd's own writerAdapter wraps its Out stream.
type writerAdapter struct {
	w io.Writer
}

func (a writerAdapter) WriteString(s string) (int, error) {
	return io.WriteString(a.w, s)
}

func inspectResult(v bytecode.Value) (string, bool) {
	if v == nil {
		return "", false
	}
	if _, ok := v.(bytecode.None); ok {
		return "", false
	}
	return v.Inspect(), true
}
