// Package vmrt is the stack-based virtual machine that executes a
// bytecode.Program (§4.6), grounded on funxy's internal/vm execution loop
// (vm.go's CallFrame/VM shape, vm_exec.go's opcode dispatch), adapted to
// AL's single-integer-operand instruction set and absolute jump addressing.
package vmrt

import (
	"errors"
	"fmt"

	"github.com/alii/al/internal/bytecode"
)

// RuntimeError is a §7 "Runtime error": raised by the instruction loop and
// always fatal to the run (AL has no user-catchable exceptions — only the
// T!E failure-value convention, which is ordinary data, not a RuntimeError).
type RuntimeError struct {
	Message string
	Line    int
}

func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("runtime error at line %d: %s", e.Line, e.Message)
	}
	return "runtime error: " + e.Message
}

var errStackUnderflow = errors.New("stack underflow")

const initialStackSize = 2048

// frame is one ongoing call: which function, where execution is (an
// absolute index into Program.Code, per §4.6), and where its locals begin
// in the shared value stack.
type frame struct {
	funcIndex int
	ip        int
	baseSlot  int
	captures  []bytecode.Value
}

// Options carries the process-level flags §6 describes. IOEnabled gates the
// I/O built-ins; the VM does not read StdLibEnabled, since the prelude is
// prepended to the source text before compilation (internal/stdlib).
type Options struct {
	IOEnabled     bool
	StdLibEnabled bool
	Stdout        Writer
}

// Writer is the minimal sink print/to_string-adjacent built-ins write to;
// satisfied by *os.File and any io.Writer via writerAdapter in cmd/al.
type Writer interface {
	WriteString(s string) (int, error)
}

// VM is the single-threaded bytecode interpreter (§4.6, §5). One VM runs
// one Program to completion; it is not reused across runs.
type VM struct {
	prog *bytecode.Program
	opts Options

	stack []bytecode.Value
	sp    int

	frames []frame

	sockets   map[int]*listener
	conns     map[int]*conn
	nextSock  int
}

func New(prog *bytecode.Program, opts Options) *VM {
	return &VM{
		prog:    prog,
		opts:    opts,
		stack:   make([]bytecode.Value, initialStackSize),
		sockets: map[int]*listener{},
		conns:   map[int]*conn{},
	}
}

// Run executes the program's entry function to completion and returns its
// final value (§6 "run" — printed unless None). Sockets/listeners left open
// when the run ends are NOT closed automatically here — the caller decides
// when the VM's resources are no longer needed (immediately, for `run` and
// `build`-style one-shot execution; only at session end or before the next
// turn, for a REPL that wants `:sockets` to see what a prior turn left
// open) and calls Close (§5 "Resource discipline").
func (vm *VM) Run() (result bytecode.Value, err error) {
	if vm.prog.EntryFunc < 0 {
		return bytecode.None{}, nil
	}
	fn := vm.prog.Functions[vm.prog.EntryFunc]
	vm.frames = append(vm.frames, frame{funcIndex: vm.prog.EntryFunc, ip: fn.CodeStart, baseSlot: 0})
	for vm.sp < fn.NumLocals {
		vm.push(bytecode.None{})
	}

	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(*RuntimeError); ok {
				err = re
				return
			}
			panic(r)
		}
	}()

	return vm.exec()
}

func (vm *VM) fail(line int, format string, args ...any) {
	panic(&RuntimeError{Message: fmt.Sprintf(format, args...), Line: line})
}

func (vm *VM) curFrame() *frame { return &vm.frames[len(vm.frames)-1] }

func (vm *VM) push(v bytecode.Value) {
	if vm.sp == len(vm.stack) {
		vm.stack = append(vm.stack, make([]bytecode.Value, initialStackSize)...)
	}
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() bytecode.Value {
	if vm.sp == 0 {
		vm.fail(0, errStackUnderflow.Error())
	}
	vm.sp--
	v := vm.stack[vm.sp]
	vm.stack[vm.sp] = nil
	return v
}

func (vm *VM) peek(depthFromTop int) bytecode.Value {
	return vm.stack[vm.sp-1-depthFromTop]
}

func (vm *VM) local(slot int) bytecode.Value {
	return vm.stack[vm.curFrame().baseSlot+slot]
}

func (vm *VM) setLocal(slot int, v bytecode.Value) {
	vm.stack[vm.curFrame().baseSlot+slot] = v
}
