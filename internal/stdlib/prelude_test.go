package stdlib_test

import (
	"testing"

	"github.com/alii/al/internal/bytecode"
	"github.com/alii/al/internal/checker"
	"github.com/alii/al/internal/compiler"
	"github.com/alii/al/internal/parser"
	"github.com/alii/al/internal/stdlib"
	"github.com/alii/al/internal/vmrt"
	"github.com/stretchr/testify/require"
)

func compileAndRun(t *testing.T, src string) bytecode.Value {
	t.Helper()
	file, diags := parser.Parse(src)
	require.Empty(t, diags)
	result, diags := checker.Check(file)
	require.Empty(t, diags)
	prog, diags := compiler.Compile(result)
	require.Empty(t, diags)
	vm := vmrt.New(prog, vmrt.Options{})
	val, err := vm.Run()
	require.NoError(t, err)
	return val
}

func TestPreludeLenReportsArrayLength(t *testing.T) {
	val := compileAndRun(t, stdlib.Prepend(`len([1, 2, 3])`))
	require.Equal(t, "3", val.Inspect())
}

func TestPreludeMapDoublesEveryElement(t *testing.T) {
	val := compileAndRun(t, stdlib.Prepend(`
fn double(n Int) Int { n * 2 }
let ys = map([1, 2, 3], double)
ys[0] * 100 + ys[1] * 10 + ys[2]
`))
	require.Equal(t, "246", val.Inspect())
}

func TestPreludeFilterKeepsMatchingElements(t *testing.T) {
	val := compileAndRun(t, stdlib.Prepend(`
fn isEven(n Int) Bool { n % 2 == 0 }
len(filter([1, 2, 3, 4], isEven))
`))
	require.Equal(t, "2", val.Inspect())
}

func TestPreludeReduceSumsElements(t *testing.T) {
	val := compileAndRun(t, stdlib.Prepend(`
fn add(acc Int, n Int) Int { acc + n }
reduce([1, 2, 3, 4], 0, add)
`))
	require.Equal(t, "10", val.Inspect())
}

func TestPreludeRangeProducesHalfOpenSequence(t *testing.T) {
	val := compileAndRun(t, stdlib.Prepend(`len(range(0, 5))`))
	require.Equal(t, "5", val.Inspect())
}
