package compiler_test

import (
	"testing"

	"github.com/alii/al/internal/bytecode"
	"github.com/alii/al/internal/checker"
	"github.com/alii/al/internal/compiler"
	"github.com/alii/al/internal/parser"
	"github.com/stretchr/testify/require"
)

func compileOK(t *testing.T, src string) *bytecode.Program {
	t.Helper()
	file, diags := parser.Parse(src)
	require.Empty(t, diags)
	result, diags := checker.Check(file)
	require.Empty(t, diags)
	prog, diags := compiler.Compile(result)
	require.Empty(t, diags)
	return prog
}

func TestCompileProducesEntryFunction(t *testing.T) {
	prog := compileOK(t, `1 + 2`)
	require.GreaterOrEqual(t, prog.EntryFunc, 0)
	require.Less(t, prog.EntryFunc, len(prog.Functions))
	main := prog.Functions[prog.EntryFunc]
	require.Equal(t, 0, main.Arity)
}

func TestCompileEmptyFileHasNoEntryFunc(t *testing.T) {
	prog := compileOK(t, ``)
	require.Equal(t, -1, prog.EntryFunc)
}

func TestCompileRegistersTopLevelFunctions(t *testing.T) {
	prog := compileOK(t, `
fn add(a Int, b Int) Int { a + b }
add(1, 2)
`)
	var found bool
	for _, fn := range prog.Functions {
		if fn.Name == "add" {
			found = true
			require.Equal(t, 2, fn.Arity)
		}
	}
	require.True(t, found, "expected a compiled function named add")
}

func TestCompileMutualRecursionSharesOneProgram(t *testing.T) {
	prog := compileOK(t, `
fn isEven(n Int) Bool {
    if n == 0 { true } else { isOdd(n - 1) }
}
fn isOdd(n Int) Bool {
    if n == 0 { false } else { isEven(n - 1) }
}
isEven(4)
`)
	names := map[string]bool{}
	for _, fn := range prog.Functions {
		names[fn.Name] = true
	}
	require.True(t, names["isEven"])
	require.True(t, names["isOdd"])
}

func TestCompileConstantPoolDeduplicatesNothingButCollectsLiterals(t *testing.T) {
	prog := compileOK(t, `'a' 'b' 'a'`)
	require.GreaterOrEqual(t, len(prog.Constants), 2)
}

func TestCompileArrayBuiltinsEmitDedicatedOpcodes(t *testing.T) {
	prog := compileOK(t, `array_len([1, 2, 3])`)
	var sawArrayLen bool
	for _, instr := range prog.Code {
		if instr.Op == bytecode.OpArrayLen {
			sawArrayLen = true
		}
	}
	require.True(t, sawArrayLen, "expected array_len(...) to compile to OpArrayLen")
}
