package compiler

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/bytecode"
)

// compileFunctionValue compiles a function body inline in the current
// (outer) code stream, guarded by a jump around it (§4.5 "Function
// emission"), then — back in the outer scope — pushes each captured value
// and emits make_closure, leaving the closure on the outer stack.
func (c *Compiler) compileFunctionValue(name string, typeParams []string, params []ast.Param, body *ast.Block) {
	funcIdx := c.reserveFunction(name)

	skip := c.emitJump(bytecode.OpJump)
	codeStart := c.prog.Here()

	inner := newFuncScope(c.cur, name)
	inner.funcIndex = funcIdx
	outer := c.cur
	c.cur = inner

	for _, p := range params {
		inner.declare(p.Name)
	}
	c.compileBlockKeep(body)
	c.emit(bytecode.OpRet, 0)

	c.cur = outer
	c.patchJump(skip)

	for _, cap := range inner.captures {
		if cap.FromLocal {
			c.emit(bytecode.OpPushLocal, cap.Index)
		} else {
			c.emit(bytecode.OpPushCapture, cap.Index)
		}
	}

	c.prog.Functions[funcIdx] = bytecode.Function{
		Name: name, Arity: len(params), NumLocals: inner.numLocals,
		CodeStart: codeStart, CodeEnd: c.prog.Here(), NumCaptures: len(inner.captures),
	}
	c.emit(bytecode.OpMakeClosure, funcIdx)
}

// resolveName emits code to push the value of name (a local, a capture, or
// — for direct recursion — push_self) and reports whether it resolved.
func (c *Compiler) resolveName(name string) bool {
	if name == c.cur.bindingName {
		c.emit(bytecode.OpPushSelf, 0)
		return true
	}
	if slot, ok := c.cur.resolveLocal(name); ok {
		c.emit(bytecode.OpPushLocal, slot)
		return true
	}
	if idx, ok := c.cur.resolveCapture(name); ok {
		c.emit(bytecode.OpPushCapture, idx)
		return true
	}
	return false
}
