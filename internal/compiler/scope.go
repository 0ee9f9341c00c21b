// Package compiler lowers a type-checked AL file into a bytecode.Program
// (§4.5), grounded on funxy's internal/vm compiler (compiler_scope.go's
// local/upvalue resolution, compiler.go's function emission), adapted to
// AL's flat local+capture slot model instead of funxy's local/upvalue split.
package compiler

import "github.com/alii/al/internal/bytecode"

// capture records how a captured name is fetched from the *enclosing*
// function's frame at closure-creation time: either one of its locals, or
// one of its own captures (cascading through nested closures).
type capture struct {
	Name      string
	FromLocal bool
	Index     int
}

// funcScope tracks one function's compile-time state: its local slots
// (across nested blocks, never reused), its ordered capture
// list, and a link to the lexically enclosing function for capture
// resolution.
type funcScope struct {
	enclosing *funcScope

	scopes    []map[string]int // block scopes; innermost last
	numLocals int

	captures     []capture
	captureIndex map[string]int

	bindingName string // current function's own name, for push_self
	funcIndex   int
}

func newFuncScope(enclosing *funcScope, bindingName string) *funcScope {
	return &funcScope{
		enclosing:    enclosing,
		scopes:       []map[string]int{{}},
		captureIndex: map[string]int{},
		bindingName:  bindingName,
	}
}

func (f *funcScope) pushBlock() { f.scopes = append(f.scopes, map[string]int{}) }
func (f *funcScope) popBlock()  { f.scopes = f.scopes[:len(f.scopes)-1] }

// declare allocates a fresh slot for name in the innermost block scope.
func (f *funcScope) declare(name string) int {
	slot := f.numLocals
	f.numLocals++
	f.scopes[len(f.scopes)-1][name] = slot
	return slot
}

func (f *funcScope) resolveLocal(name string) (int, bool) {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		if slot, ok := f.scopes[i][name]; ok {
			return slot, true
		}
	}
	return -1, false
}

// resolveCapture finds name in an enclosing function (as a local or as one
// of *its* captures), registering a new capture entry on f as needed. It
// cascades: a name found two levels up is captured at every level in
// between, so each closure only ever reads from its immediate parent frame.
func (f *funcScope) resolveCapture(name string) (int, bool) {
	if idx, ok := f.captureIndex[name]; ok {
		return idx, true
	}
	if f.enclosing == nil {
		return -1, false
	}
	if slot, ok := f.enclosing.resolveLocal(name); ok {
		return f.addCapture(name, capture{Name: name, FromLocal: true, Index: slot}), true
	}
	if idx, ok := f.enclosing.resolveCapture(name); ok {
		return f.addCapture(name, capture{Name: name, FromLocal: false, Index: idx}), true
	}
	return -1, false
}

func (f *funcScope) addCapture(name string, c capture) int {
	idx := len(f.captures)
	f.captures = append(f.captures, c)
	f.captureIndex[name] = idx
	return idx
}

func (c *Compiler) emit(op bytecode.Op, operand int) int {
	return c.prog.Emit(op, operand, c.curLine)
}

func (c *Compiler) emitJump(op bytecode.Op) int {
	return c.emit(op, 0)
}

func (c *Compiler) patchJump(addr int) {
	c.prog.Patch(addr, c.prog.Here())
}
