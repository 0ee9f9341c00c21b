package vmrt_test

import (
	"strings"
	"testing"

	"github.com/alii/al/internal/bytecode"
	"github.com/alii/al/internal/checker"
	"github.com/alii/al/internal/compiler"
	"github.com/alii/al/internal/diag"
	"github.com/alii/al/internal/parser"
	"github.com/alii/al/internal/vmrt"
	"github.com/stretchr/testify/require"
)

type builderWriter struct{ b *strings.Builder }

func (w *builderWriter) WriteString(s string) (int, error) { return w.b.WriteString(s) }

func runOpts(t *testing.T, src string, opts vmrt.Options) (bytecode.Value, string) {
	t.Helper()
	file, diags := parser.Parse(src)
	requireNoErrors(t, diags, "parse")

	result, diags := checker.Check(file)
	requireNoErrors(t, diags, "check")

	prog, diags := compiler.Compile(result)
	requireNoErrors(t, diags, "compile")

	var out strings.Builder
	opts.Stdout = &builderWriter{&out}
	vm := vmrt.New(prog, opts)
	val, err := vm.Run()
	require.NoError(t, err, "runtime error")
	return val, out.String()
}

func run(t *testing.T, src string) (bytecode.Value, string) {
	t.Helper()
	return runOpts(t, src, vmrt.Options{})
}

func requireNoErrors(t *testing.T, diags []diag.Diagnostic, stage string) {
	t.Helper()
	for _, d := range diags {
		if d.Severity == diag.SeverityError {
			t.Fatalf("%s error: %s", stage, d.Message)
		}
	}
}

func TestArithmeticPrecedence(t *testing.T) {
	val, _ := run(t, `1 + 2 * 3`)
	require.Equal(t, bytecode.Int(7), val)
}

func TestFloatWidening(t *testing.T) {
	val, _ := run(t, `1 + 2.5`)
	require.Equal(t, bytecode.Float(3.5), val)
}

func TestStringConcatViaPlus(t *testing.T) {
	val, _ := run(t, `'foo' + 'bar'`)
	require.Equal(t, bytecode.String("foobar"), val)
}

func TestIfExpression(t *testing.T) {
	val, _ := run(t, `if 1 < 2 { 'yes' } else { 'no' }`)
	require.Equal(t, bytecode.String("yes"), val)
}

func TestRecursiveFunction(t *testing.T) {
	val, _ := run(t, `
fn fact(n Int) Int {
    if n <= 1 { 1 } else { n * fact(n - 1) }
}
fact(5)
`)
	require.Equal(t, bytecode.Int(120), val)
}

func TestMutualRecursion(t *testing.T) {
	val, _ := run(t, `
fn isEven(n Int) Bool {
    if n == 0 { true } else { isOdd(n - 1) }
}
fn isOdd(n Int) Bool {
    if n == 0 { false } else { isEven(n - 1) }
}
isEven(10)
`)
	require.Equal(t, bytecode.Bool(true), val)
}

func TestClosureCapture(t *testing.T) {
	val, _ := run(t, `
fn makeAdder(x Int) fn(Int) Int {
    fn(y Int) Int { x + y }
}
let add5 = makeAdder(5)
add5(10)
`)
	require.Equal(t, bytecode.Int(15), val)
}

func TestTailCallDoesNotGrowStack(t *testing.T) {
	val, _ := run(t, `
fn countdown(n Int) Int {
    if n <= 0 { 0 } else { countdown(n - 1) }
}
countdown(200000)
`)
	require.Equal(t, bytecode.Int(0), val)
}

func TestMatchEnumVariants(t *testing.T) {
	val, _ := run(t, `
enum Shape {
    Circle(Float)
    Square(Float)
}

fn area(s Shape) Float {
    match s {
        Shape.Circle(r) -> r * r * 3,
        Shape.Square(side) -> side * side,
    }
}
area(Shape.Square(4.0))
`)
	require.Equal(t, bytecode.Float(16), val)
}

func TestMatchTuplePattern(t *testing.T) {
	val, _ := run(t, `
match (1, 2) {
    (0, _) -> 0,
    (a, b) -> a + b,
}
`)
	require.Equal(t, bytecode.Int(3), val)
}

func TestOrElseHandlesFailure(t *testing.T) {
	val, _ := run(t, `
fn maybeFail(n Int) Int!String {
    if n < 0 { error('negative') } else { n }
}
maybeFail(-1) or 0
`)
	require.Equal(t, bytecode.Int(0), val)
}

func TestStructFieldAccess(t *testing.T) {
	val, _ := run(t, `
struct Point { x Int, y Int }
let p = Point { x: 3, y: 4 }
p.x + p.y
`)
	require.Equal(t, bytecode.Int(7), val)
}

func TestArrayIndexAndLen(t *testing.T) {
	val, _ := run(t, `
let xs = [10, 20, 30]
xs[1] + array_len(xs)
`)
	require.Equal(t, bytecode.Int(23), val)
}

func TestArraySpreadPatternBinding(t *testing.T) {
	val, _ := run(t, `
match [1, 2, 3, 4] {
    [first, ..rest] -> first + array_len(rest),
    else -> 0,
}
`)
	require.Equal(t, bytecode.Int(4), val)
}

func TestPrintWritesInspect(t *testing.T) {
	_, out := run(t, `print(42)`)
	require.Equal(t, "42\n", out)
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	file, diags := parser.Parse(`1 / 0`)
	requireNoErrors(t, diags, "parse")
	result, diags := checker.Check(file)
	requireNoErrors(t, diags, "check")
	prog, diags := compiler.Compile(result)
	requireNoErrors(t, diags, "compile")

	vm := vmrt.New(prog, vmrt.Options{})
	_, err := vm.Run()
	require.Error(t, err)
}

func TestIOWithoutFlagAborts(t *testing.T) {
	file, diags := parser.Parse(`file_read("/tmp/al-vmrt-test-missing")`)
	requireNoErrors(t, diags, "parse")
	result, diags := checker.Check(file)
	requireNoErrors(t, diags, "check")
	prog, diags := compiler.Compile(result)
	requireNoErrors(t, diags, "compile")

	vm := vmrt.New(prog, vmrt.Options{IOEnabled: false})
	_, err := vm.Run()
	require.Error(t, err)
}
