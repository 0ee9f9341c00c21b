package parser_test

import (
	"testing"

	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/parser"
	"github.com/stretchr/testify/require"
)

func parseOK(t *testing.T, src string) *ast.File {
	t.Helper()
	file, diags := parser.Parse(src)
	require.Empty(t, diags, "unexpected diagnostics for %q", src)
	return file
}

func TestParseBinaryPrecedence(t *testing.T) {
	file := parseOK(t, "1 + 2 * 3")
	stmt := file.Stmts[0].(*ast.ExprStmt)
	bin := stmt.X.(*ast.BinaryExpr)
	require.Equal(t, "+", bin.Op)
	require.IsType(t, &ast.NumberLit{}, bin.Left)
	mul := bin.Right.(*ast.BinaryExpr)
	require.Equal(t, "*", mul.Op)
}

func TestParseFunctionDeclaration(t *testing.T) {
	file := parseOK(t, `fn add(a Int, b Int) Int { a + b }`)
	decl := file.Stmts[0].(*ast.FunctionDeclaration)
	require.Equal(t, "add", decl.Name)
	require.Len(t, decl.Params, 2)
	require.Equal(t, "a", decl.Params[0].Name)
	require.Equal(t, "Int", decl.ReturnType.Name)
	require.Nil(t, decl.ErrorType)
}

func TestParseFunctionWithErrorReturnType(t *testing.T) {
	file := parseOK(t, `fn parse(s String) Int!String { 0 }`)
	decl := file.Stmts[0].(*ast.FunctionDeclaration)
	require.Equal(t, "Int", decl.ReturnType.Name)
	require.NotNil(t, decl.ErrorType)
	require.Equal(t, "String", decl.ErrorType.Name)
}

func TestParseStructDeclaration(t *testing.T) {
	file := parseOK(t, `struct Point { x Int, y Int }`)
	decl := file.Stmts[0].(*ast.StructDeclaration)
	require.Equal(t, "Point", decl.Name)
	require.Len(t, decl.Fields, 2)
	require.Equal(t, "x", decl.Fields[0].Name)
}

func TestParseEnumDeclaration(t *testing.T) {
	file := parseOK(t, "enum Shape {\n    Circle(Float)\n    Square(Float)\n}")
	decl := file.Stmts[0].(*ast.EnumDeclaration)
	require.Equal(t, "Shape", decl.Name)
	require.Len(t, decl.Variants, 2)
	require.Equal(t, "Circle", decl.Variants[0].Name)
}

func TestParseMatchExpression(t *testing.T) {
	file := parseOK(t, "match x {\n    0 -> 1\n    else -> 2\n}")
	stmt := file.Stmts[0].(*ast.ExprStmt)
	m := stmt.X.(*ast.Match)
	require.Len(t, m.Arms, 2)
	require.IsType(t, &ast.WildcardPattern{}, m.Arms[1].Pattern)
}

func TestParseOrExprWithErrorHandler(t *testing.T) {
	file := parseOK(t, `parse(s) or err e -> { 0 }`)
	stmt := file.Stmts[0].(*ast.ExprStmt)
	or := stmt.X.(*ast.OrExpr)
	require.True(t, or.HasErrName)
	require.Equal(t, "e", or.ErrName)
}

func TestParseArrayAndIndex(t *testing.T) {
	file := parseOK(t, `[1, 2, 3][0]`)
	stmt := file.Stmts[0].(*ast.ExprStmt)
	idx := stmt.X.(*ast.ArrayIndex)
	arr := idx.Target.(*ast.ArrayLit)
	require.Len(t, arr.Elements, 3)
}

func TestParseTupleLiteral(t *testing.T) {
	file := parseOK(t, `(1, true, 'x')`)
	stmt := file.Stmts[0].(*ast.ExprStmt)
	tup := stmt.X.(*ast.TupleLit)
	require.Len(t, tup.Elements, 3)
}

func TestParseLetBinding(t *testing.T) {
	file := parseOK(t, `let x = 5`)
	decl := file.Stmts[0].(*ast.VarBinding)
	require.False(t, decl.IsConst)
	ident := decl.Pattern.(*ast.IdentPattern)
	require.Equal(t, "x", ident.Name)
}

func TestParseConstBinding(t *testing.T) {
	file := parseOK(t, `const x = 5`)
	decl := file.Stmts[0].(*ast.VarBinding)
	require.True(t, decl.IsConst)
}

func TestParsePropagateNone(t *testing.T) {
	file := parseOK(t, `lookup(key)!`)
	stmt := file.Stmts[0].(*ast.ExprStmt)
	require.IsType(t, &ast.PropagateNone{}, stmt.X)
}

func TestParseReportsDiagnosticOnUnclosedBrace(t *testing.T) {
	_, diags := parser.Parse("fn f(x Int) Int {")
	require.NotEmpty(t, diags)
}

func TestParseInterpolatedString(t *testing.T) {
	file := parseOK(t, `'hello $name'`)
	stmt := file.Stmts[0].(*ast.ExprStmt)
	lit := stmt.X.(*ast.InterpStringLit)
	require.NotEmpty(t, lit.Parts)
}
