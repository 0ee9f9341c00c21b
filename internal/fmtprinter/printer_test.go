package fmtprinter_test

import (
	"testing"

	"github.com/alii/al/internal/fmtprinter"
	"github.com/alii/al/internal/parser"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

func TestFormatFunctionDeclaration(t *testing.T) {
	src := `fn fact(n Int) Int {
    if n <= 1 { 1 } else { n * fact(n - 1) }
}
`
	file, diags := parser.Parse(src)
	require.Empty(t, diags)
	snaps.MatchSnapshot(t, fmtprinter.Format(file))
}

func TestFormatStructAndEnum(t *testing.T) {
	src := `struct Point { x Int, y Int }
enum Shape {
    Circle(Float)
    Square(Float)
}
`
	file, diags := parser.Parse(src)
	require.Empty(t, diags)
	snaps.MatchSnapshot(t, fmtprinter.Format(file))
}

func TestFormatIsIdempotent(t *testing.T) {
	src := `let xs = [1, 2, 3]
match xs {
    [first, ..rest] -> first + array_len(rest),
    else -> 0,
}
`
	file, diags := parser.Parse(src)
	require.Empty(t, diags)
	once := fmtprinter.Format(file)

	file2, diags2 := parser.Parse(once)
	require.Empty(t, diags2)
	twice := fmtprinter.Format(file2)

	require.Equal(t, once, twice)
}

func TestFormatPreservesPrecedence(t *testing.T) {
	src := `(1 + 2) * 3
1 + 2 * 3
`
	file, diags := parser.Parse(src)
	require.Empty(t, diags)
	snaps.MatchSnapshot(t, fmtprinter.Format(file))
}
