// Package checker implements AL's single-pass Hindley-Milner-style type
// checker: hoisting followed by inference, producing a typed AST (modeled
// as the original AST plus a resolved-type map) and a type environment
// (§4.3).
package checker

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/diag"
	"github.com/alii/al/internal/types"
)

// SpanType associates a source span with its resolved type, for LSP hover.
type SpanType struct {
	Span diag.Span
	Type types.Type
}

// Result is AL's "typed AST": the original syntactic AST plus every node's
// resolved type, the final type environment, and the struct/enum tables the
// compiler needs. Go has no cheap way to clone every AST node type with an
// extra field, so instead of a parallel node hierarchy the checker
// annotates the existing nodes via this side map — the compiler and LSP
// consume it exactly as they would a parallel typed tree.
type Result struct {
	File      *ast.File
	Env       *types.Env
	Types     map[ast.Expr]types.Type
	SpanTypes []SpanType
}

func (r *Result) TypeOf(e ast.Expr) (types.Type, bool) {
	t, ok := r.Types[e]
	return t, ok
}

// Checker walks the AST in a single forward pass.
type Checker struct {
	env   *types.Env
	types map[ast.Expr]types.Type
	spans []SpanType

	Diagnostics diag.Bag

	// subs accumulates type-variable bindings across one top-level
	// declaration's inference (reset between top-level statements).
	subs types.Subst

	// currentFunc tracks the enclosing function's declared error type, to
	// validate `x!` propagation contexts (§4.3).
	currentFuncErr types.Type
	currentFuncRet types.Type
	haveFuncCtx    bool
}

// Check type-checks a parsed file end to end.
func Check(file *ast.File) (*Result, []diag.Diagnostic) {
	c := &Checker{
		env:   types.NewEnv(),
		types: map[ast.Expr]types.Type{},
	}
	c.registerBuiltins()
	c.hoist(file)
	c.env.PushScope()
	for _, stmt := range file.Stmts {
		c.subs = types.Subst{}
		first := len(c.spans)
		c.checkStmt(stmt)
		// Resolve the types recorded so far against this statement's
		// substitution, so Types/SpanTypes hold concrete types, not raw vars.
		for e, t := range c.types {
			c.types[e] = types.Substitute(t, c.subs)
		}
		for i := first; i < len(c.spans); i++ {
			c.spans[i].Type = types.Substitute(c.spans[i].Type, c.subs)
		}
	}
	c.env.PopScope()
	return &Result{File: file, Env: c.env, Types: c.types, SpanTypes: c.spans}, c.Diagnostics.All()
}

func (c *Checker) record(e ast.Expr, t types.Type) types.Type {
	c.types[e] = t
	c.spans = append(c.spans, SpanType{Span: e.Span(), Type: t})
	return t
}

func (c *Checker) errorf(span diag.Span, format string, args ...any) {
	c.Diagnostics.Errorf(diag.StageCheck, span, format, args...)
}
