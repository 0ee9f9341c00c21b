package checker_test

import (
	"testing"

	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/checker"
	"github.com/alii/al/internal/diag"
	"github.com/alii/al/internal/parser"
	"github.com/stretchr/testify/require"
)

func checkOK(t *testing.T, src string) *checker.Result {
	t.Helper()
	file, diags := parser.Parse(src)
	require.Empty(t, diags)
	result, diags := checker.Check(file)
	require.Empty(t, diags, "unexpected check diagnostics for %q", src)
	return result
}

func lastExprType(t *testing.T, result *checker.Result) string {
	t.Helper()
	stmt := result.File.Stmts[len(result.File.Stmts)-1].(*ast.ExprStmt)
	ty, ok := result.TypeOf(stmt.X)
	require.True(t, ok, "no recorded type for final expression")
	return ty.String()
}

func TestCheckInfersArithmeticType(t *testing.T) {
	result := checkOK(t, `1 + 2`)
	require.Equal(t, "Int", lastExprType(t, result))
}

func TestCheckInfersFloatWidening(t *testing.T) {
	result := checkOK(t, `1 + 2.5`)
	require.Equal(t, "Float", lastExprType(t, result))
}

func TestCheckInfersFunctionCallReturnType(t *testing.T) {
	result := checkOK(t, "fn double(n Int) Int { n * 2 }\ndouble(21)")
	require.Equal(t, "Int", lastExprType(t, result))
}

func TestCheckSupportsMutualRecursionAcrossTopLevelFunctions(t *testing.T) {
	checkOK(t, `
fn isEven(n Int) Bool {
    if n == 0 { true } else { isOdd(n - 1) }
}
fn isOdd(n Int) Bool {
    if n == 0 { false } else { isEven(n - 1) }
}
isEven(10)
`)
}

func TestCheckResolvesBuiltinCalls(t *testing.T) {
	// Exercises registerBuiltins: print/array_len aren't ordinary hoisted
	// functions, but calling them must still type-check.
	result := checkOK(t, `array_len([1, 2, 3])`)
	require.Equal(t, "Int", lastExprType(t, result))

	checkOK(t, `print('hello')`)
}

func TestCheckGenericFunctionInstantiatesPerCallSite(t *testing.T) {
	result := checkOK(t, `
fn identity(x t) t { x }
identity(5)
`)
	require.Equal(t, "Int", lastExprType(t, result))
}

func TestCheckStructFieldAccess(t *testing.T) {
	result := checkOK(t, `
struct Point { x Int, y Int }
let p = Point { x: 1, y: 2 }
p.x
`)
	require.Equal(t, "Int", lastExprType(t, result))
}

func TestCheckReportsUndefinedVariable(t *testing.T) {
	file, diags := parser.Parse(`unknownName`)
	require.Empty(t, diags)
	_, checkDiags := checker.Check(file)
	require.NotEmpty(t, checkDiags)
	require.Contains(t, checkDiags[0].Message, "unknownName")
}

func TestCheckReportsTypeMismatch(t *testing.T) {
	file, diags := parser.Parse(`1 + 'x'`)
	require.Empty(t, diags)
	_, checkDiags := checker.Check(file)
	require.NotEmpty(t, checkDiags)
	hasError := false
	for _, d := range checkDiags {
		if d.Severity == diag.SeverityError {
			hasError = true
		}
	}
	require.True(t, hasError)
}
