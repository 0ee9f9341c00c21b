package compiler

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/bytecode"
	"github.com/alii/al/internal/types"
)

func (c *Compiler) compileCall(n *ast.CallExpr, tail bool) {
	if en, ok := c.typesOf[n.Callee].(*types.Enum); ok {
		variant := variantNameOf(n.Callee)
		tag := bytecode.EnumTag{EnumName: en.Name, Variant: variant}
		c.emit(bytecode.OpPushConst, c.prog.AddConstant(tag))
		for _, a := range n.Args {
			c.compileExpr(a, false)
		}
		c.emit(bytecode.OpMakeEnumPayload, len(n.Args))
		return
	}

	if id, ok := n.Callee.(*ast.Ident); ok {
		if op, isBuiltin := builtinOps[id.Name]; isBuiltin && !c.isBound(id.Name) {
			for _, a := range n.Args {
				c.compileExpr(a, false)
			}
			c.emit(op, 0)
			return
		}
	}

	c.compileExpr(n.Callee, false)
	for _, a := range n.Args {
		c.compileExpr(a, false)
	}
	if tail {
		c.emit(bytecode.OpTailCall, len(n.Args))
	} else {
		c.emit(bytecode.OpCall, len(n.Args))
	}
}

func variantNameOf(callee ast.Expr) string {
	switch e := callee.(type) {
	case *ast.PropertyAccess:
		return e.Name
	case *ast.Ident:
		return e.Name
	}
	return ""
}

// isBound reports whether name resolves to a local, capture, or the current
// binding anywhere in the enclosing function chain (so a call to that name
// must not be mistaken for a builtin it happens to shadow).
func (c *Compiler) isBound(name string) bool {
	for f := c.cur; f != nil; f = f.enclosing {
		if name == f.bindingName {
			return true
		}
		if _, ok := f.resolveLocal(name); ok {
			return true
		}
		if _, ok := f.captureIndex[name]; ok {
			return true
		}
	}
	return false
}
