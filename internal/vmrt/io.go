package vmrt

import (
	"fmt"
	"net"
	"os"

	"github.com/google/uuid"

	"github.com/alii/al/internal/bytecode"
)

// listener and conn are the VM-owned resources a Socket handle names (§4.6,
// §5 "Resource discipline"). Entries live in vm.sockets/vm.conns until
// tcp_close removes them or the VM's owner calls Close, which sweeps what
// remains.
// label is a UUID-derived debug tag distinct from the integer id: the id is
// what bytecode/the VM addresses internally, but a label survives being
// printed next to other sockets from unrelated runs without collision, which
// is what :sockets wants to show a human.
type listener struct {
	ln    net.Listener
	label string
}

type conn struct {
	c     net.Conn
	label string
}

// dispatchIO executes one of the I/O built-ins, gated by --experimental-
// shitty-io (§6). Each pops its own argument count and pushes either the
// success value or an Error{payload} failure value, per §4.6.
func (vm *VM) dispatchIO(instr bytecode.Instruction) {
	if !vm.opts.IOEnabled {
		vm.fail(instr.Line, "%s used without --experimental-shitty-io", instr.Op)
	}
	switch instr.Op {
	case bytecode.OpFileRead:
		path := vm.mustString(vm.pop(), instr.Line, "file_read")
		data, err := os.ReadFile(path)
		if err != nil {
			vm.push(ioErr(err))
			return
		}
		vm.push(bytecode.String(data))

	case bytecode.OpFileWrite:
		data := vm.mustString(vm.pop(), instr.Line, "file_write")
		path := vm.mustString(vm.pop(), instr.Line, "file_write")
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			vm.push(ioErr(err))
			return
		}
		vm.push(bytecode.None{})

	case bytecode.OpTCPListen:
		port := vm.mustInt(vm.pop(), instr.Line, "tcp_listen")
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			vm.push(ioErr(err))
			return
		}
		id := vm.nextSock
		vm.nextSock++
		vm.sockets[id] = &listener{ln: ln, label: uuid.NewString()}
		vm.push(&bytecode.Socket{ID: id, Kind: "listener"})

	case bytecode.OpTCPAccept:
		sock := vm.mustSocket(vm.pop(), instr.Line, "tcp_accept")
		l, ok := vm.sockets[sock.ID]
		if !ok {
			vm.push(ioErr(fmt.Errorf("socket %d is not a listener", sock.ID)))
			return
		}
		c, err := l.ln.Accept()
		if err != nil {
			vm.push(ioErr(err))
			return
		}
		id := vm.nextSock
		vm.nextSock++
		vm.conns[id] = &conn{c: c, label: uuid.NewString()}
		vm.push(&bytecode.Socket{ID: id, Kind: "conn"})

	case bytecode.OpTCPRead:
		sock := vm.mustSocket(vm.pop(), instr.Line, "tcp_read")
		cn, ok := vm.conns[sock.ID]
		if !ok {
			vm.push(ioErr(fmt.Errorf("socket %d is not a connection", sock.ID)))
			return
		}
		buf := make([]byte, 4096)
		n, err := cn.c.Read(buf)
		if err != nil {
			vm.push(ioErr(err))
			return
		}
		vm.push(bytecode.String(buf[:n]))

	case bytecode.OpTCPWrite:
		data := vm.mustString(vm.pop(), instr.Line, "tcp_write")
		sock := vm.mustSocket(vm.pop(), instr.Line, "tcp_write")
		cn, ok := vm.conns[sock.ID]
		if !ok {
			vm.push(ioErr(fmt.Errorf("socket %d is not a connection", sock.ID)))
			return
		}
		if _, err := cn.c.Write([]byte(data)); err != nil {
			vm.push(ioErr(err))
			return
		}
		vm.push(bytecode.None{})

	case bytecode.OpTCPClose:
		sock := vm.mustSocket(vm.pop(), instr.Line, "tcp_close")
		if l, ok := vm.sockets[sock.ID]; ok {
			l.ln.Close()
			delete(vm.sockets, sock.ID)
		}
		if cn, ok := vm.conns[sock.ID]; ok {
			cn.c.Close()
			delete(vm.conns, sock.ID)
		}
		vm.push(bytecode.None{})
	}
}

func ioErr(err error) *bytecode.Error {
	return &bytecode.Error{Payload: bytecode.String(err.Error())}
}

func (vm *VM) mustString(v bytecode.Value, line int, ctx string) string {
	s, ok := v.(bytecode.String)
	if !ok {
		vm.fail(line, "%s: expected a string", ctx)
	}
	return string(s)
}

func (vm *VM) mustSocket(v bytecode.Value, line int, ctx string) *bytecode.Socket {
	s, ok := v.(*bytecode.Socket)
	if !ok {
		vm.fail(line, "%s: expected a socket", ctx)
	}
	return s
}

// Close releases every socket still open on this VM (§5 "Resource
// discipline"). Safe to call on a VM whose program never used the network.
func (vm *VM) Close() {
	for id, l := range vm.sockets {
		l.ln.Close()
		delete(vm.sockets, id)
	}
	for id, c := range vm.conns {
		c.c.Close()
		delete(vm.conns, id)
	}
}

// SocketInfo summarizes one live handle for the REPL's `:sockets` command,
// including its UUID debug label (distinct from the
// VM-internal integer id).
type SocketInfo struct {
	ID         int
	IsListener bool
	Label      string
}

// OpenSockets lists every socket/listener this VM still holds open.
func (vm *VM) OpenSockets() []SocketInfo {
	out := make([]SocketInfo, 0, len(vm.sockets)+len(vm.conns))
	for id, l := range vm.sockets {
		out = append(out, SocketInfo{ID: id, IsListener: true, Label: l.label})
	}
	for id, c := range vm.conns {
		out = append(out, SocketInfo{ID: id, IsListener: false, Label: c.label})
	}
	return out
}
