package compiler

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/bytecode"
)

// compileMatch lowers a match expression (§4.5 "Pattern lowering"). The
// subject is compiled once; each arm duplicates it, tests the duplicate,
// binds names from a second duplicate, then compiles the arm body. Fall-
// through past the final arm (unreachable once the checker has confirmed
// exhaustiveness) pushes none defensively.
func (c *Compiler) compileMatch(n *ast.Match, tail bool) {
	c.compileExpr(n.Subject, false)

	var endJumps []int
	for _, arm := range n.Arms {
		c.emit(bytecode.OpDup, 0)
		var fail []int
		c.compileTest(arm.Pattern, &fail)

		c.emit(bytecode.OpDup, 0)
		c.cur.pushBlock()
		c.bindMatchPattern(arm.Pattern)
		c.emit(bytecode.OpPop, 0)
		c.compileExpr(arm.Body, tail)
		c.cur.popBlock()

		endJumps = append(endJumps, c.emitJump(bytecode.OpJump))
		for _, f := range fail {
			c.patchJump(f)
		}
	}
	c.emit(bytecode.OpPop, 0)
	c.emit(bytecode.OpPushNone, 0)
	for _, e := range endJumps {
		c.patchJump(e)
	}
}

// branchOnBool consumes a bool left on top of the stack by the caller's
// most recent comparison. On true it falls through, leaving the value V
// beneath untouched. On false it pops V too and records a jump to *fail —
// every caller of branchOnBool relies on this to keep the "V consumed
// exactly once, however the pattern test turns out" invariant compileTest
// and bindMatchPattern are built around.
func (c *Compiler) branchOnBool(fail *[]int) {
	ok := c.emitJump(bytecode.OpJumpIfTrue)
	c.emit(bytecode.OpPop, 0)
	*fail = append(*fail, c.emitJump(bytecode.OpJump))
	c.patchJump(ok)
}

// compileTest consumes the value on top of the stack, testing it against
// pat. On success it falls through with that value fully consumed; on
// failure it jumps to an address appended to *fail, also with the value
// fully consumed — so every call site sees the same net stack effect
// regardless of outcome.
func (c *Compiler) compileTest(pat ast.Pattern, fail *[]int) {
	switch p := pat.(type) {
	case *ast.WildcardPattern, *ast.IdentPattern:
		c.emit(bytecode.OpPop, 0)

	case *ast.LiteralPattern:
		c.compileExpr(p.Value, false)
		c.emit(bytecode.OpEq, 0)
		*fail = append(*fail, c.emitJump(bytecode.OpJumpIfFalse))

	case *ast.RangePattern:
		c.emit(bytecode.OpDup, 0)
		c.compileExpr(p.Start, false)
		c.emit(bytecode.OpGte, 0)
		c.branchOnBool(fail)
		c.emit(bytecode.OpDup, 0)
		c.compileExpr(p.End, false)
		c.emit(bytecode.OpLt, 0)
		c.branchOnBool(fail)
		c.emit(bytecode.OpPop, 0)

	case *ast.TuplePattern:
		for i, el := range p.Elements {
			c.emit(bytecode.OpDup, 0)
			c.emit(bytecode.OpTupleIndex, i)
			c.compileTest(el, fail)
		}
		c.emit(bytecode.OpPop, 0)

	case *ast.ArrayPattern:
		c.emit(bytecode.OpDup, 0)
		c.emit(bytecode.OpArrayLen, 0)
		c.emit(bytecode.OpPushConst, c.prog.AddConstant(bytecode.Int(int64(len(p.Elements)))))
		if p.HasSpread {
			c.emit(bytecode.OpGte, 0)
		} else {
			c.emit(bytecode.OpEq, 0)
		}
		c.branchOnBool(fail)
		for i, el := range p.Elements {
			c.emit(bytecode.OpDup, 0)
			c.emit(bytecode.OpTupleIndex, i)
			c.compileTest(el, fail)
		}
		c.emit(bytecode.OpPop, 0)

	case *ast.EnumVariantPattern:
		// The variant name alone identifies the match at runtime — which
		// enum it belongs to was only needed for the checker's static
		// exhaustiveness check.
		c.emit(bytecode.OpDup, 0)
		c.emit(bytecode.OpPushConst, c.prog.AddConstant(bytecode.String(p.Variant)))
		c.emit(bytecode.OpMatchEnum, 0)
		c.branchOnBool(fail)
		if len(p.SubPatterns) == 0 {
			c.emit(bytecode.OpPop, 0)
			return
		}
		c.emit(bytecode.OpUnwrapEnum, len(p.SubPatterns))
		for i := len(p.SubPatterns) - 1; i >= 0; i-- {
			c.compileTest(p.SubPatterns[i], fail)
		}

	case *ast.OrPattern:
		c.compileOrTest(p, fail)

	default:
		c.emit(bytecode.OpPop, 0)
	}
}

func (c *Compiler) compileOrTest(p *ast.OrPattern, fail *[]int) {
	var successJumps []int
	for i, alt := range p.Alternatives {
		if i == len(p.Alternatives)-1 {
			c.compileTest(alt, fail)
			break
		}
		c.emit(bytecode.OpDup, 0)
		var localFail []int
		c.compileTest(alt, &localFail)
		c.emit(bytecode.OpPop, 0)
		successJumps = append(successJumps, c.emitJump(bytecode.OpJump))
		for _, f := range localFail {
			c.patchJump(f)
		}
	}
	for _, sj := range successJumps {
		c.patchJump(sj)
	}
}

// bindMatchPattern mirrors compileTest's traversal but, since the pattern
// is already known to match, unconditionally destructures the value on top
// of the stack into store_local instructions, fully consuming it.
func (c *Compiler) bindMatchPattern(pat ast.Pattern) {
	switch p := pat.(type) {
	case *ast.WildcardPattern, *ast.LiteralPattern, *ast.RangePattern:
		c.emit(bytecode.OpPop, 0)

	case *ast.IdentPattern:
		slot := c.cur.declare(p.Name)
		c.emit(bytecode.OpStoreLocal, slot)

	case *ast.TuplePattern:
		for i, el := range p.Elements {
			c.emit(bytecode.OpDup, 0)
			c.emit(bytecode.OpTupleIndex, i)
			c.bindMatchPattern(el)
		}
		c.emit(bytecode.OpPop, 0)

	case *ast.ArrayPattern:
		for i, el := range p.Elements {
			c.emit(bytecode.OpDup, 0)
			c.emit(bytecode.OpTupleIndex, i)
			c.bindMatchPattern(el)
		}
		if p.HasSpread {
			// Stack holds one copy of the array; leave exactly one behind for
			// the trailing Pop below regardless of this branch.
			c.emit(bytecode.OpDup, 0)
			c.emit(bytecode.OpDup, 0)
			c.emit(bytecode.OpArrayLen, 0)
			c.emit(bytecode.OpPushConst, c.prog.AddConstant(bytecode.Int(int64(len(p.Elements)))))
			c.emit(bytecode.OpSwap, 0)
			c.emit(bytecode.OpArraySlice, 0)
			slot := c.cur.declare(p.SpreadName)
			c.emit(bytecode.OpStoreLocal, slot)
		}
		c.emit(bytecode.OpPop, 0)

	case *ast.EnumVariantPattern:
		if len(p.SubPatterns) == 0 {
			c.emit(bytecode.OpPop, 0)
			return
		}
		c.emit(bytecode.OpUnwrapEnum, len(p.SubPatterns))
		for i := len(p.SubPatterns) - 1; i >= 0; i-- {
			c.bindMatchPattern(p.SubPatterns[i])
		}

	case *ast.OrPattern:
		// Or-patterns are restricted to non-binding alternatives (literals,
		// wildcards, bare enum tags) — see DESIGN.md.
		c.emit(bytecode.OpPop, 0)

	default:
		c.emit(bytecode.OpPop, 0)
	}
}
