// Package bytecode defines AL's instruction set, tagged runtime values, and
// the Program/Function containers the compiler emits and the VM executes
// (§4.4), grounded on funxy's internal/vm opcode table and chunk layout.
package bytecode

// Op is a single VM instruction opcode. Every operand is a single integer
// (index into constants, locals, captures, functions, or an absolute jump
// target) — AL's instruction set is deliberately tight compared to funxy's,
// since AL has no traits, extension methods, or map literals to dispatch.
type Op byte

const (
	// Stack
	OpPushConst Op = iota
	OpPushLocal
	OpStoreLocal
	OpPushNone
	OpPushTrue
	OpPushFalse
	OpPop
	OpDup
	OpSwap

	// Arithmetic/logic
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLte
	OpGte
	OpNot

	// Control
	OpJump
	OpJumpIfFalse
	OpJumpIfTrue
	OpCall
	OpTailCall
	OpRet
	OpHalt

	// Aggregates
	OpMakeArray
	OpMakeTuple
	OpMakeRange
	OpIndex
	OpArrayLen
	OpArraySlice
	OpArrayConcat
	OpTupleIndex
	OpMakeStruct
	OpGetField

	// Enums
	OpMakeEnum
	OpMakeEnumPayload
	OpMatchEnum
	OpUnwrapEnum

	// Closures
	OpMakeClosure
	OpPushCapture
	OpPushSelf

	// Failure values
	OpMakeError
	OpIsFailure
	OpUnwrapFailure

	// Strings
	OpToString
	OpStrConcat
	OpStrSplit

	// Built-ins
	OpPrint
	OpFileRead
	OpFileWrite
	OpTCPListen
	OpTCPAccept
	OpTCPRead
	OpTCPWrite
	OpTCPClose
)

var opNames = map[Op]string{
	OpPushConst:  "push_const",
	OpPushLocal:  "push_local",
	OpStoreLocal: "store_local",
	OpPushNone:   "push_none",
	OpPushTrue:   "push_true",
	OpPushFalse:  "push_false",
	OpPop:        "pop",
	OpDup:        "dup",
	OpSwap:       "swap",

	OpAdd: "add",
	OpSub: "sub",
	OpMul: "mul",
	OpDiv: "div",
	OpMod: "mod",
	OpNeg: "neg",
	OpEq:  "eq",
	OpNeq: "neq",
	OpLt:  "lt",
	OpGt:  "gt",
	OpLte: "lte",
	OpGte: "gte",
	OpNot: "not",

	OpJump:        "jump",
	OpJumpIfFalse: "jump_if_false",
	OpJumpIfTrue:  "jump_if_true",
	OpCall:        "call",
	OpTailCall:    "tail_call",
	OpRet:         "ret",
	OpHalt:        "halt",

	OpMakeArray:   "make_array",
	OpMakeTuple:   "make_tuple",
	OpMakeRange:   "make_range",
	OpIndex:       "index",
	OpArrayLen:    "array_len",
	OpArraySlice:  "array_slice",
	OpArrayConcat: "array_concat",
	OpTupleIndex:  "tuple_index",
	OpMakeStruct:  "make_struct",
	OpGetField:    "get_field",

	OpMakeEnum:        "make_enum",
	OpMakeEnumPayload: "make_enum_payload",
	OpMatchEnum:       "match_enum",
	OpUnwrapEnum:      "unwrap_enum",

	OpMakeClosure: "make_closure",
	OpPushCapture: "push_capture",
	OpPushSelf:    "push_self",

	OpMakeError:     "make_error",
	OpIsFailure:     "is_failure",
	OpUnwrapFailure: "unwrap_failure",

	OpToString:  "to_string",
	OpStrConcat: "str_concat",
	OpStrSplit:  "str_split",

	OpPrint:     "print",
	OpFileRead:  "file_read",
	OpFileWrite: "file_write",
	OpTCPListen: "tcp_listen",
	OpTCPAccept: "tcp_accept",
	OpTCPRead:   "tcp_read",
	OpTCPWrite:  "tcp_write",
	OpTCPClose:  "tcp_close",
}

func (op Op) String() string {
	if n, ok := opNames[op]; ok {
		return n
	}
	return "unknown"
}

// HasOperand reports whether op is followed by a single int operand in the
// instruction stream.
func HasOperand(op Op) bool {
	switch op {
	case OpPushNone, OpPushTrue, OpPushFalse, OpPop, OpDup, OpSwap,
		OpAdd, OpSub, OpMul, OpDiv, OpMod, OpNeg,
		OpEq, OpNeq, OpLt, OpGt, OpLte, OpGte, OpNot,
		OpRet, OpHalt,
		OpMakeRange, OpIndex, OpArrayLen, OpArraySlice, OpArrayConcat,
		OpMakeEnum, OpMatchEnum, OpPushSelf,
		OpMakeError, OpIsFailure, OpUnwrapFailure,
		OpToString, OpStrConcat, OpStrSplit,
		OpPrint, OpFileRead, OpFileWrite,
		OpTCPListen, OpTCPAccept, OpTCPRead, OpTCPWrite, OpTCPClose:
		return false
	default:
		return true
	}
}

// Operand encoding convention (AL has no bytecode serialization format, so
// this is a compiler/VM-internal contract rather than a wire format):
//
//   push_const idx       idx = Program.Constants index
//   push_local i         i   = local slot in the current frame
//   store_local i        i   = local slot in the current frame
//   push_capture i       i   = index into the closure's capture list
//   jump/jump_if_* a     a   = absolute address in Program.Code
//   call n / tail_call n n   = argument count
//   make_array n         n   = element count
//   make_tuple n         n   = element count
//   tuple_index i        i   = literal tuple position
//   get_field idx        idx = literal struct field position
//   make_struct n        n   = field count (a StructTag pushed via push_const first)
//   make_enum_payload n  n   = payload count (an EnumTag pushed via push_const first)
//   unwrap_enum n        n   = payload arity to push
//   make_closure idx     idx = Program.Functions index (captures pushed first, in order)
//
// Every other operand-bearing op not listed above is one of the two
// constant-pool or slot conventions already covered.
