package replcmd

import (
	"fmt"
	"strings"

	"github.com/alii/al/internal/checker"
	"github.com/alii/al/internal/diag"
	"github.com/alii/al/internal/parser"
)

// handleCommand dispatches a `:name [arg]` line. Grounded on the teacher's
// cmd/lsp/handler_hover.go (rendering a checker.Type's String() for a given
// span) reused here over the REPL's own running state rather than an LSP
// document.
func (r *REPL) handleCommand(cmd, arg string) {
	switch cmd {
	case "sockets":
		r.cmdSockets()
	case "type":
		r.cmdType(arg)
	case "history":
		for i, entry := range r.history {
			fmt.Fprintf(r.opts.Out, "%3d  %s", i+1, entry)
		}
	case "help":
		fmt.Fprintln(r.opts.Out, "commands: :type <expr>, :sockets, :history, :exit")
	default:
		fmt.Fprintf(r.opts.Err, "unknown command :%s (try :help)\n", cmd)
	}
}

func (r *REPL) cmdSockets() {
	if r.lastVM == nil {
		fmt.Fprintln(r.opts.Out, "no sockets open")
		return
	}
	open := r.lastVM.OpenSockets()
	if len(open) == 0 {
		fmt.Fprintln(r.opts.Out, "no sockets open")
		return
	}
	for _, s := range open {
		kind := "conn"
		if s.IsListener {
			kind = "listener"
		}
		fmt.Fprintf(r.opts.Out, "  socket %d (%s) %s\n", s.ID, kind, s.Label)
	}
}

// cmdType type-checks arg as one more expression appended to the
// accumulated session source and reports the resolved type of its last
// statement, without compiling or running anything (no side effects).
func (r *REPL) cmdType(arg string) {
	if strings.TrimSpace(arg) == "" {
		fmt.Fprintln(r.opts.Err, "usage: :type <expr>")
		return
	}
	candidate := r.source.String() + arg + "\n"
	file, diags := parser.Parse(candidate)
	if hasErrors(diags) {
		diag.Print(r.opts.Err, "<repl>", candidate, diags)
		return
	}
	result, diags := checker.Check(file)
	if hasErrors(diags) {
		diag.Print(r.opts.Err, "<repl>", candidate, diags)
		return
	}
	if len(result.SpanTypes) == 0 {
		fmt.Fprintln(r.opts.Err, "no type information for that expression")
		return
	}
	last := result.SpanTypes[len(result.SpanTypes)-1]
	fmt.Fprintln(r.opts.Out, last.Type.String())
}
