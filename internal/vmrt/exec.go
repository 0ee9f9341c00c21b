package vmrt

import (
	"math"
	"strings"

	"github.com/alii/al/internal/bytecode"
)

const maxFrameCount = 4096

// exec runs the fetch-decode-dispatch loop (§4.6 "Execution loop") until the
// entry frame returns, and hands that value back.
func (vm *VM) exec() (bytecode.Value, error) {
	for {
		f := vm.curFrame()
		instr := vm.prog.Code[f.ip]
		f.ip++

		switch instr.Op {
		case bytecode.OpPushConst:
			vm.push(vm.prog.Constants[instr.Operand])
		case bytecode.OpPushLocal:
			vm.push(vm.local(instr.Operand))
		case bytecode.OpStoreLocal:
			vm.setLocal(instr.Operand, vm.pop())
		case bytecode.OpPushNone:
			vm.push(bytecode.None{})
		case bytecode.OpPushTrue:
			vm.push(bytecode.Bool(true))
		case bytecode.OpPushFalse:
			vm.push(bytecode.Bool(false))
		case bytecode.OpPop:
			vm.pop()
		case bytecode.OpDup:
			vm.push(vm.peek(0))
		case bytecode.OpSwap:
			a, b := vm.pop(), vm.pop()
			vm.push(a)
			vm.push(b)

		case bytecode.OpAdd:
			vm.binArith(instr.Line, "add", func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
		case bytecode.OpSub:
			vm.binArith(instr.Line, "sub", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
		case bytecode.OpMul:
			vm.binArith(instr.Line, "mul", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
		case bytecode.OpDiv:
			vm.divOrMod(instr.Line, true)
		case bytecode.OpMod:
			vm.divOrMod(instr.Line, false)
		case bytecode.OpNeg:
			switch x := vm.pop().(type) {
			case bytecode.Int:
				vm.push(-x)
			case bytecode.Float:
				vm.push(-x)
			default:
				vm.fail(instr.Line, "unsupported operand for neg: %T", x)
			}
		case bytecode.OpEq:
			b, a := vm.pop(), vm.pop()
			vm.push(bytecode.Bool(bytecode.Equal(a, b)))
		case bytecode.OpNeq:
			b, a := vm.pop(), vm.pop()
			vm.push(bytecode.Bool(!bytecode.Equal(a, b)))
		case bytecode.OpLt:
			vm.compare(instr.Line, func(c int) bool { return c < 0 })
		case bytecode.OpGt:
			vm.compare(instr.Line, func(c int) bool { return c > 0 })
		case bytecode.OpLte:
			vm.compare(instr.Line, func(c int) bool { return c <= 0 })
		case bytecode.OpGte:
			vm.compare(instr.Line, func(c int) bool { return c >= 0 })
		case bytecode.OpNot:
			vm.push(bytecode.Bool(!bytecode.IsTruthy(vm.pop())))

		case bytecode.OpJump:
			f.ip = instr.Operand
		case bytecode.OpJumpIfFalse:
			if !bytecode.IsTruthy(vm.pop()) {
				f.ip = instr.Operand
			}
		case bytecode.OpJumpIfTrue:
			if bytecode.IsTruthy(vm.pop()) {
				f.ip = instr.Operand
			}

		case bytecode.OpCall:
			vm.doCall(instr.Operand, false, instr.Line)
		case bytecode.OpTailCall:
			vm.doCall(instr.Operand, true, instr.Line)
		case bytecode.OpRet:
			ret := vm.pop()
			fr := vm.curFrame()
			vm.sp = fr.baseSlot
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				return ret, nil
			}
			vm.push(ret)
		case bytecode.OpHalt:
			return bytecode.None{}, nil

		case bytecode.OpMakeArray:
			n := instr.Operand
			elems := make([]bytecode.Value, n)
			copy(elems, vm.stack[vm.sp-n:vm.sp])
			vm.sp -= n
			vm.push(&bytecode.Array{Elems: elems})
		case bytecode.OpMakeTuple:
			n := instr.Operand
			elems := make([]bytecode.Value, n)
			copy(elems, vm.stack[vm.sp-n:vm.sp])
			vm.sp -= n
			vm.push(&bytecode.Tuple{Elems: elems})
		case bytecode.OpMakeRange:
			end := vm.pop()
			start := vm.pop()
			s, ok1 := start.(bytecode.Int)
			e, ok2 := end.(bytecode.Int)
			if !ok1 || !ok2 {
				vm.fail(instr.Line, "range bounds must be ints")
			}
			n := int(e - s)
			if n < 0 {
				n = 0
			}
			elems := make([]bytecode.Value, n)
			for i := range elems {
				elems[i] = bytecode.Int(int64(s) + int64(i))
			}
			vm.push(&bytecode.Array{Elems: elems})
		case bytecode.OpIndex:
			idx := vm.pop()
			target := vm.pop()
			vm.push(vm.doIndex(target, idx, instr.Line))
		case bytecode.OpArrayLen:
			arr := vm.mustArray(vm.pop(), instr.Line, "array_len")
			vm.push(bytecode.Int(int64(len(arr.Elems))))
		case bytecode.OpArraySlice:
			end := vm.mustInt(vm.pop(), instr.Line, "array_slice end")
			start := vm.mustInt(vm.pop(), instr.Line, "array_slice start")
			arr := vm.mustArray(vm.pop(), instr.Line, "array_slice")
			vm.push(&bytecode.Array{Elems: sliceBounded(arr.Elems, start, end)})
		case bytecode.OpArrayConcat:
			b := vm.mustArray(vm.pop(), instr.Line, "array_concat")
			a := vm.mustArray(vm.pop(), instr.Line, "array_concat")
			out := make([]bytecode.Value, 0, len(a.Elems)+len(b.Elems))
			out = append(out, a.Elems...)
			out = append(out, b.Elems...)
			vm.push(&bytecode.Array{Elems: out})
		case bytecode.OpTupleIndex:
			switch v := vm.pop().(type) {
			case *bytecode.Tuple:
				if instr.Operand < 0 || instr.Operand >= len(v.Elems) {
					vm.fail(instr.Line, "tuple index out of bounds: %d", instr.Operand)
				}
				vm.push(v.Elems[instr.Operand])
			case *bytecode.Array:
				if instr.Operand < 0 || instr.Operand >= len(v.Elems) {
					vm.fail(instr.Line, "array index out of bounds: %d", instr.Operand)
				}
				vm.push(v.Elems[instr.Operand])
			default:
				vm.fail(instr.Line, "tuple_index on non-tuple/array value")
			}
		case bytecode.OpMakeStruct:
			n := instr.Operand
			tag, ok := vm.stack[vm.sp-n-1].(bytecode.StructTag)
			if !ok {
				vm.fail(instr.Line, "make_struct without a struct tag constant")
			}
			values := make([]bytecode.Value, n)
			copy(values, vm.stack[vm.sp-n:vm.sp])
			vm.sp -= n + 1
			vm.push(&bytecode.Struct{TypeName: tag.Name, Fields: tag.Fields, Values: values})
		case bytecode.OpGetField:
			s, ok := vm.pop().(*bytecode.Struct)
			if !ok {
				vm.fail(instr.Line, "get_field on non-struct value")
			}
			if instr.Operand < 0 || instr.Operand >= len(s.Values) {
				vm.fail(instr.Line, "field index out of bounds: %d", instr.Operand)
			}
			vm.push(s.Values[instr.Operand])

		case bytecode.OpMakeEnum:
			tag, ok := vm.pop().(bytecode.EnumTag)
			if !ok {
				vm.fail(instr.Line, "make_enum without an enum tag constant")
			}
			vm.push(&bytecode.Enum{EnumName: tag.EnumName, Variant: tag.Variant})
		case bytecode.OpMakeEnumPayload:
			n := instr.Operand
			tag, ok := vm.stack[vm.sp-n-1].(bytecode.EnumTag)
			if !ok {
				vm.fail(instr.Line, "make_enum_payload without an enum tag constant")
			}
			payload := make([]bytecode.Value, n)
			copy(payload, vm.stack[vm.sp-n:vm.sp])
			vm.sp -= n + 1
			vm.push(&bytecode.Enum{EnumName: tag.EnumName, Variant: tag.Variant, Payload: payload})
		case bytecode.OpMatchEnum:
			variant, ok := vm.pop().(bytecode.String)
			if !ok {
				vm.fail(instr.Line, "match_enum without a variant name constant")
			}
			e, isEnum := vm.pop().(*bytecode.Enum)
			if !isEnum {
				vm.fail(instr.Line, "match_enum on non-enum value")
			}
			vm.push(bytecode.Bool(e.Variant == string(variant)))
		case bytecode.OpUnwrapEnum:
			e, ok := vm.pop().(*bytecode.Enum)
			if !ok {
				vm.fail(instr.Line, "unwrap_enum on non-enum value")
			}
			n := instr.Operand
			if len(e.Payload) != n {
				vm.fail(instr.Line, "unwrap_enum arity mismatch: variant has %d, pattern expects %d", len(e.Payload), n)
			}
			for _, p := range e.Payload {
				vm.push(p)
			}

		case bytecode.OpMakeClosure:
			fn := vm.prog.Functions[instr.Operand]
			captures := make([]bytecode.Value, fn.NumCaptures)
			copy(captures, vm.stack[vm.sp-fn.NumCaptures:vm.sp])
			vm.sp -= fn.NumCaptures
			vm.push(&bytecode.Closure{FuncIndex: instr.Operand, Captures: captures})
		case bytecode.OpPushCapture:
			vm.push(vm.curFrame().captures[instr.Operand])
		case bytecode.OpPushSelf:
			vm.push(&bytecode.Closure{FuncIndex: vm.curFrame().funcIndex, Captures: vm.curFrame().captures})

		case bytecode.OpMakeError:
			vm.push(&bytecode.Error{Payload: vm.pop()})
		case bytecode.OpIsFailure:
			vm.push(bytecode.Bool(bytecode.IsFailure(vm.peek(0))))
		case bytecode.OpUnwrapFailure:
			switch v := vm.pop().(type) {
			case *bytecode.Error:
				vm.push(v.Payload)
			case bytecode.None:
				vm.push(bytecode.None{})
			default:
				vm.fail(instr.Line, "unwrap_failure on a non-failure value")
			}

		case bytecode.OpToString:
			vm.push(bytecode.String(vm.pop().Inspect()))
		case bytecode.OpStrConcat:
			b, a := vm.pop(), vm.pop()
			as, aok := a.(bytecode.String)
			bs, bok := b.(bytecode.String)
			if !aok || !bok {
				vm.fail(instr.Line, "str_concat on non-string operand")
			}
			vm.push(as + bs)
		case bytecode.OpStrSplit:
			sep, ok1 := vm.pop().(bytecode.String)
			s, ok2 := vm.pop().(bytecode.String)
			if !ok1 || !ok2 {
				vm.fail(instr.Line, "str_split on non-string operand")
			}
			vm.push(strSplit(s, sep))

		case bytecode.OpPrint:
			v := vm.pop()
			if vm.opts.Stdout != nil {
				vm.opts.Stdout.WriteString(v.Inspect() + "\n")
			}
			vm.push(bytecode.None{})

		case bytecode.OpFileRead, bytecode.OpFileWrite,
			bytecode.OpTCPListen, bytecode.OpTCPAccept, bytecode.OpTCPRead, bytecode.OpTCPWrite, bytecode.OpTCPClose:
			vm.dispatchIO(instr)

		default:
			vm.fail(instr.Line, "unimplemented opcode %s", instr.Op)
		}
	}
}

func (vm *VM) compare(line int, keep func(int) bool) {
	b, a := vm.pop(), vm.pop()
	c, ok := numCompare(a, b)
	if !ok {
		vm.fail(line, "unsupported operand types for comparison")
	}
	vm.push(bytecode.Bool(keep(c)))
}

func numCompare(a, b bytecode.Value) (int, bool) {
	switch x := a.(type) {
	case bytecode.Int:
		switch y := b.(type) {
		case bytecode.Int:
			return cmpInt(int64(x), int64(y)), true
		case bytecode.Float:
			return cmpFloat(float64(x), float64(y)), true
		}
	case bytecode.Float:
		switch y := b.(type) {
		case bytecode.Int:
			return cmpFloat(float64(x), float64(y)), true
		case bytecode.Float:
			return cmpFloat(float64(x), float64(y)), true
		}
	case bytecode.String:
		if y, ok := b.(bytecode.String); ok {
			switch {
			case x < y:
				return -1, true
			case x > y:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	return 0, false
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (vm *VM) binArith(line int, name string, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) {
	b, a := vm.pop(), vm.pop()
	switch x := a.(type) {
	case bytecode.Int:
		switch y := b.(type) {
		case bytecode.Int:
			vm.push(bytecode.Int(intOp(int64(x), int64(y))))
			return
		case bytecode.Float:
			vm.push(bytecode.Float(floatOp(float64(x), float64(y))))
			return
		}
	case bytecode.Float:
		if y, ok := numFloat(b); ok {
			vm.push(bytecode.Float(floatOp(float64(x), y)))
			return
		}
	}
	vm.fail(line, "unsupported operand types for %s", name)
}

func numFloat(v bytecode.Value) (float64, bool) {
	switch x := v.(type) {
	case bytecode.Int:
		return float64(x), true
	case bytecode.Float:
		return float64(x), true
	}
	return 0, false
}

func (vm *VM) divOrMod(line int, isDiv bool) {
	b, a := vm.pop(), vm.pop()
	ai, aIsInt := a.(bytecode.Int)
	bi, bIsInt := b.(bytecode.Int)
	if aIsInt && bIsInt {
		if bi == 0 {
			vm.fail(line, "division by zero")
		}
		if isDiv {
			vm.push(bytecode.Int(int64(ai) / int64(bi)))
		} else {
			vm.push(bytecode.Int(int64(ai) % int64(bi)))
		}
		return
	}
	af, aok := numFloat(a)
	bf, bok := numFloat(b)
	if !aok || !bok {
		vm.fail(line, "unsupported operand types for %s", opName(isDiv))
	}
	if bf == 0 {
		vm.fail(line, "division by zero")
	}
	if isDiv {
		vm.push(bytecode.Float(af / bf))
	} else {
		vm.push(bytecode.Float(math.Mod(af, bf)))
	}
}

func opName(isDiv bool) string {
	if isDiv {
		return "div"
	}
	return "mod"
}

func (vm *VM) mustArray(v bytecode.Value, line int, ctx string) *bytecode.Array {
	a, ok := v.(*bytecode.Array)
	if !ok {
		vm.fail(line, "%s: expected an array", ctx)
	}
	return a
}

func (vm *VM) mustInt(v bytecode.Value, line int, ctx string) int {
	n, ok := v.(bytecode.Int)
	if !ok {
		vm.fail(line, "%s: expected an int", ctx)
	}
	return int(n)
}

func sliceBounded(elems []bytecode.Value, start, end int) []bytecode.Value {
	if start < 0 {
		start = 0
	}
	if end > len(elems) {
		end = len(elems)
	}
	if start > end {
		start = end
	}
	out := make([]bytecode.Value, end-start)
	copy(out, elems[start:end])
	return out
}

func (vm *VM) doIndex(target, idx bytecode.Value, line int) bytecode.Value {
	arr := vm.mustArray(target, line, "index")
	switch i := idx.(type) {
	case bytecode.Int:
		n := int(i)
		if n < 0 || n >= len(arr.Elems) {
			vm.fail(line, "array index out of bounds: %d", n)
		}
		return arr.Elems[n]
	case *bytecode.Array:
		// A range selector produced by make_range: its elements are the
		// consecutive ints of the selected span.
		if len(i.Elems) == 0 {
			return &bytecode.Array{}
		}
		start, ok := i.Elems[0].(bytecode.Int)
		if !ok {
			vm.fail(line, "invalid range selector")
		}
		return &bytecode.Array{Elems: sliceBounded(arr.Elems, int(start), int(start)+len(i.Elems))}
	default:
		vm.fail(line, "invalid index type")
		return bytecode.None{}
	}
}

func strSplit(s, sep bytecode.String) *bytecode.Array {
	parts := strings.Split(string(s), string(sep))
	elems := make([]bytecode.Value, len(parts))
	for i, p := range parts {
		elems[i] = bytecode.String(p)
	}
	return &bytecode.Array{Elems: elems}
}

// doCall implements call/tail_call (§4.6 "Execution loop"): the closure sits
// just beneath its n freshly pushed arguments on the stack.
func (vm *VM) doCall(n int, tail bool, line int) {
	closureVal := vm.stack[vm.sp-n-1]
	closure, ok := closureVal.(*bytecode.Closure)
	if !ok {
		vm.fail(line, "attempt to call a non-callable value: %s", closureVal.Inspect())
	}
	fn := vm.prog.Functions[closure.FuncIndex]
	if n != fn.Arity {
		vm.fail(line, "wrong arity calling %s: expected %d, got %d", fn.Name, fn.Arity, n)
	}
	args := make([]bytecode.Value, n)
	copy(args, vm.stack[vm.sp-n:vm.sp])

	if tail {
		f := vm.curFrame()
		base := f.baseSlot
		vm.sp = base
		for _, a := range args {
			vm.push(a)
		}
		for vm.sp < base+fn.NumLocals {
			vm.push(bytecode.None{})
		}
		f.funcIndex = closure.FuncIndex
		f.captures = closure.Captures
		f.ip = fn.CodeStart
		return
	}

	if len(vm.frames) >= maxFrameCount {
		vm.fail(line, "call stack exceeded depth %d", maxFrameCount)
	}
	base := vm.sp - n - 1
	copy(vm.stack[base:base+n], args)
	vm.sp = base + n
	for vm.sp < base+fn.NumLocals {
		vm.push(bytecode.None{})
	}
	vm.frames = append(vm.frames, frame{funcIndex: closure.FuncIndex, ip: fn.CodeStart, baseSlot: base, captures: closure.Captures})
}
