package replcmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNeedsContinuationDetectsUnclosedBrace(t *testing.T) {
	require.True(t, needsContinuation("fn f(x Int) Int {\n"))
	require.False(t, needsContinuation("fn f(x Int) Int { x }\n"))
}

func TestNeedsContinuationIgnoresBracketsInsideStrings(t *testing.T) {
	require.False(t, needsContinuation(`"not ( a bracket"` + "\n"))
}

func TestREPLEvaluatesExpressionAndPrintsResult(t *testing.T) {
	var out, errOut strings.Builder
	r := New(Options{In: strings.NewReader("1 + 2\n"), Out: &out, Err: &errOut})
	require.NoError(t, r.Run())
	require.Equal(t, "3\n", out.String())
	require.Empty(t, errOut.String())
}

func TestREPLAccumulatesDefinitionsAcrossInputs(t *testing.T) {
	var out, errOut strings.Builder
	r := New(Options{In: strings.NewReader("fn double(n Int) Int { n * 2 }\ndouble(21)\n"), Out: &out, Err: &errOut})
	require.NoError(t, r.Run())
	require.Equal(t, "42\n", out.String())
	require.Empty(t, errOut.String())
}

func TestREPLExitCommandStopsLoop(t *testing.T) {
	var out, errOut strings.Builder
	r := New(Options{In: strings.NewReader(":exit\n1 + 1\n"), Out: &out, Err: &errOut})
	require.NoError(t, r.Run())
	require.Empty(t, out.String())
}

func TestREPLTypeCommandReportsResolvedType(t *testing.T) {
	var out, errOut strings.Builder
	r := New(Options{In: strings.NewReader(":type 1 + 2\n"), Out: &out, Err: &errOut})
	require.NoError(t, r.Run())
	require.Equal(t, "Int\n", out.String())
	require.Empty(t, errOut.String())
}

func TestREPLSocketsReportsNoneByDefault(t *testing.T) {
	var out, errOut strings.Builder
	r := New(Options{In: strings.NewReader(":sockets\n"), Out: &out, Err: &errOut})
	require.NoError(t, r.Run())
	require.Equal(t, "no sockets open\n", out.String())
}
