package compiler

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/bytecode"
)

// compileBlockKeep compiles body in a fresh block scope, leaving its final
// expression's value on the stack (a trailing ExprStmt) — or push_none if
// the block ends in a plain statement. tail marks whether body's own final
// expression is in tail position (propagated into compileExpr).
func (c *Compiler) compileBlockKeep(body *ast.Block, tail ...bool) {
	inTail := len(tail) > 0 && tail[0]
	c.cur.pushBlock()
	defer c.cur.popBlock()

	if len(body.Stmts) == 0 {
		c.emit(bytecode.OpPushNone, 0)
		return
	}
	for i, stmt := range body.Stmts {
		last := i == len(body.Stmts)-1
		if es, ok := stmt.(*ast.ExprStmt); ok && last {
			c.compileExpr(es.X, inTail)
			return
		}
		c.compileStmtDiscard(stmt)
	}
	c.emit(bytecode.OpPushNone, 0)
}

// compileStmtDiscard compiles a statement for its side effects only; any
// expression-statement value is popped.
func (c *Compiler) compileStmtDiscard(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		c.compileExpr(s.X, false)
		c.emit(bytecode.OpPop, 0)
	case *ast.VarBinding:
		c.compileVarBinding(s)
	case *ast.ReturnStmt:
		if s.Value != nil {
			c.compileExpr(s.Value, true)
		} else {
			c.emit(bytecode.OpPushNone, 0)
		}
		c.emit(bytecode.OpRet, 0)
	case *ast.FunctionDeclaration:
		// Nested named function: bind like a let.
		slot := c.cur.declare(s.Name)
		c.compileFunctionValue(s.Name, s.TypeParams, s.Params, s.Body)
		c.emit(bytecode.OpStoreLocal, slot)
	case *ast.StructDeclaration, *ast.EnumDeclaration, *ast.ImportStmt, *ast.ErrorNode:
		// no runtime effect
	case *ast.ExportStmt:
		c.compileStmtDiscard(s.Decl)
	}
}

func (c *Compiler) compileVarBinding(s *ast.VarBinding) {
	c.compileExpr(s.Value, false)
	c.bindPattern(s.Pattern)
}

// bindPattern pops (or, for destructuring, consumes) the value on top of
// the stack into the slots named by pat.
func (c *Compiler) bindPattern(pat ast.Pattern) {
	switch p := pat.(type) {
	case *ast.IdentPattern:
		slot := c.cur.declare(p.Name)
		c.emit(bytecode.OpStoreLocal, slot)
	case *ast.WildcardPattern:
		c.emit(bytecode.OpPop, 0)
	case *ast.TuplePattern:
		for i, el := range p.Elements {
			c.emit(bytecode.OpDup, 0)
			c.emit(bytecode.OpTupleIndex, i)
			c.bindPattern(el)
		}
		c.emit(bytecode.OpPop, 0)
	default:
		c.emit(bytecode.OpPop, 0)
	}
}
