package diag

import (
	"fmt"
	"io"
	"strings"
)

// Print renders diagnostics in source order as:
//
//	error: <msg>
//	  --> <file>:<line>:<col>
//	   | <source line>
//	   |      ^^^^
//
// followed by "Found N errors" when at least one error is present.
func Print(w io.Writer, file string, source string, ds []Diagnostic) {
	lines := strings.Split(source, "\n")
	errCount := 0
	for _, d := range ds {
		if d.Severity == SeverityError {
			errCount++
		}
		fmt.Fprintf(w, "%s: %s\n", d.Severity, d.Message)
		fmt.Fprintf(w, "  --> %s:%d:%d\n", file, d.Span.StartLine, d.Span.StartCol)

		if d.Span.StartLine >= 1 && d.Span.StartLine <= len(lines) {
			src := lines[d.Span.StartLine-1]
			fmt.Fprintf(w, "   | %s\n", src)
			width := d.Span.EndCol - d.Span.StartCol
			if d.Span.EndLine != d.Span.StartLine || width < 1 {
				width = 1
			}
			fmt.Fprintf(w, "   | %s%s\n", strings.Repeat(" ", d.Span.StartCol-1), strings.Repeat("^", width))
		}
	}
	if errCount > 0 {
		fmt.Fprintf(w, "Found %d error", errCount)
		if errCount != 1 {
			fmt.Fprint(w, "s")
		}
		fmt.Fprintln(w)
	}
}
