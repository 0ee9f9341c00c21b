// Package diag holds source spans and the diagnostic model shared by every
// pipeline stage (scanner, parser, checker).
package diag

import "fmt"

// Span is a half-open source range. Lines and columns are 1-based.
type Span struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Join returns the smallest span covering both a and b.
func Join(a, b Span) Span {
	s := a
	if b.EndLine > s.EndLine || (b.EndLine == s.EndLine && b.EndCol > s.EndCol) {
		s.EndLine, s.EndCol = b.EndLine, b.EndCol
	}
	if b.StartLine < s.StartLine || (b.StartLine == s.StartLine && b.StartCol < s.StartCol) {
		s.StartLine, s.StartCol = b.StartLine, b.StartCol
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}
