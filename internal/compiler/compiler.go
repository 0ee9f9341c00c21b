package compiler

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/bytecode"
	"github.com/alii/al/internal/checker"
	"github.com/alii/al/internal/diag"
	"github.com/alii/al/internal/types"
)

// Compiler lowers a checker.Result into a bytecode.Program (§4.5).
type Compiler struct {
	prog    *bytecode.Program
	env     *types.Env
	typesOf map[ast.Expr]types.Type

	cur     *funcScope
	curLine int

	Diagnostics diag.Bag
}

// Compile produces a Program implementing file's semantics as resolved by
// result. The whole file is compiled as one implicit zero-arity top-level
// function: named fn declarations behave like `let name = fn(...) {...}`
// bindings of that function (§4.5 "current binding name"), which lets
// ordinary local/capture resolution serve every name in the program,
// including mutual recursion between sibling top-level functions — see
// DESIGN.md for why function closures are hoisted ahead of other statements.
func Compile(result *checker.Result) (*bytecode.Program, []diag.Diagnostic) {
	c := &Compiler{
		prog:    bytecode.NewProgram(),
		env:     result.Env,
		typesOf: result.Types,
	}

	mainIdx := c.reserveFunction("main")
	main := newFuncScope(nil, "main")
	c.cur = main

	stmts := unwrapExports(result.File.Stmts)
	fnDecls, rest := splitFunctionDecls(stmts)

	// Pass 1: declare every top-level name (functions first, so bodies
	// compiled below may forward-reference siblings) as a local of main.
	for _, fd := range fnDecls {
		c.cur.declare(fd.Name)
	}

	start := c.prog.Here()
	for _, fd := range fnDecls {
		c.compileFunctionValue(fd.Name, fd.TypeParams, fd.Params, fd.Body)
		slot, _ := c.cur.resolveLocal(fd.Name)
		c.emit(bytecode.OpStoreLocal, slot)
	}
	c.compileTopRest(rest)
	c.emit(bytecode.OpRet, 0)

	c.prog.Functions[mainIdx] = bytecode.Function{
		Name: "main", Arity: 0, NumLocals: main.numLocals,
		CodeStart: start, CodeEnd: c.prog.Here(),
	}
	if len(fnDecls) > 0 || len(rest) > 0 {
		c.prog.EntryFunc = mainIdx
	}
	return c.prog, c.Diagnostics.All()
}

func (c *Compiler) reserveFunction(name string) int {
	c.prog.Functions = append(c.prog.Functions, bytecode.Function{Name: name})
	return len(c.prog.Functions) - 1
}

func (c *Compiler) errorf(span diag.Span, format string, args ...any) {
	c.Diagnostics.Errorf(diag.StageCheck, span, format, args...)
}

func splitFunctionDecls(stmts []ast.Stmt) (fns []*ast.FunctionDeclaration, rest []ast.Stmt) {
	for _, s := range stmts {
		if fd, ok := s.(*ast.FunctionDeclaration); ok {
			fns = append(fns, fd)
		} else {
			rest = append(rest, s)
		}
	}
	return fns, rest
}

func unwrapExports(stmts []ast.Stmt) []ast.Stmt {
	out := make([]ast.Stmt, len(stmts))
	for i, s := range stmts {
		if ex, ok := s.(*ast.ExportStmt); ok {
			out[i] = ex.Decl
		} else {
			out[i] = s
		}
	}
	return out
}

// compileTopStmt compiles one non-function top-level statement for its side
// effects only, leaving the implicit main function's value stack unchanged
// between statements.
func (c *Compiler) compileTopStmt(stmt ast.Stmt) {
	switch stmt.(type) {
	case *ast.StructDeclaration, *ast.EnumDeclaration, *ast.ImportStmt, *ast.ErrorNode:
		return
	}
	c.compileStmtDiscard(stmt)
}

// compileTopRest compiles the file's non-function top-level statements,
// leaving exactly one value on main's stack for the trailing OpRet — the
// same trailing-expression-keeps-its-value rule compileBlockKeep applies to
// an ordinary function body (stmt.go), so a file ending in a plain
// expression (§8 scenario 1's `1 + 2 * 3`) returns that expression's value
// instead of underflowing the stack on return.
func (c *Compiler) compileTopRest(stmts []ast.Stmt) {
	if len(stmts) == 0 {
		c.emit(bytecode.OpPushNone, 0)
		return
	}
	for i, stmt := range stmts {
		last := i == len(stmts)-1
		if es, ok := stmt.(*ast.ExprStmt); ok && last {
			c.compileExpr(es.X, false)
			return
		}
		c.compileTopStmt(stmt)
	}
	c.emit(bytecode.OpPushNone, 0)
}
