// Package replcmd implements AL's interactive loop (§6 `repl`): accumulate
// definitions across inputs, detect unclosed brackets/strings for multiline
// continuation, and on each complete input re-check the accumulated block
// before running it. Interactive-vs-piped detection and the
// optional startup config follow the teacher's own terminal/config
// conventions (internal/evaluator/builtins_term.go's isatty checks,
// internal/ext/config.go's yaml.v3 struct-tag style).
package replcmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/alii/al/internal/bytecode"
	"github.com/alii/al/internal/checker"
	"github.com/alii/al/internal/compiler"
	"github.com/alii/al/internal/diag"
	"github.com/alii/al/internal/parser"
	"github.com/alii/al/internal/vmrt"
)

// Config is the optional `--config` startup file: history size and whether
// the experimental flags are pre-enabled for the session.
type Config struct {
	HistorySize   int  `yaml:"history_size,omitempty"`
	IOEnabled     bool `yaml:"io_enabled,omitempty"`
	StdLibEnabled bool `yaml:"std_lib_enabled,omitempty"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{HistorySize: 100}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading repl config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing repl config: %w", err)
	}
	return cfg, nil
}

// Options configures one REPL session.
type Options struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
	Cfg Config
}

// REPL holds the accumulated source across inputs, re-checked as one
// growing program on every complete entry (§6 "accumulate definitions
// across inputs").
type REPL struct {
	opts       Options
	source     strings.Builder
	history    []string
	lastResult *checker.Result
	lastVM     *vmrt.VM
}

func New(opts Options) *REPL {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	return &REPL{opts: opts}
}

// interactive reports whether stdin is a real terminal (vs. piped), the
// same isatty.IsTerminal/IsCygwinTerminal pair the teacher checks before
// deciding whether to print a prompt.
func interactive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run drives the read-eval-print loop until EOF or an `:exit` command.
func (r *REPL) Run() error {
	scanner := bufio.NewScanner(r.opts.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	showPrompt := false
	if f, ok := r.opts.In.(*os.File); ok {
		showPrompt = interactive(f)
	}
	defer func() {
		if r.lastVM != nil {
			r.lastVM.Close()
		}
	}()

	var pending strings.Builder
	for {
		if showPrompt {
			if pending.Len() == 0 {
				fmt.Fprint(r.opts.Out, "al> ")
			} else {
				fmt.Fprint(r.opts.Out, "...> ")
			}
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()

		if pending.Len() == 0 {
			switch strings.TrimSpace(line) {
			case ":exit", ":quit":
				return nil
			}
			if cmd, arg, ok := parseColonCommand(line); ok {
				r.handleCommand(cmd, arg)
				continue
			}
		}

		pending.WriteString(line)
		pending.WriteString("\n")

		if !needsContinuation(pending.String()) {
			r.evalEntry(pending.String())
			pending.Reset()
		}
	}
}

func parseColonCommand(line string) (cmd, arg string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") {
		return "", "", false
	}
	fields := strings.SplitN(trimmed[1:], " ", 2)
	cmd = fields[0]
	if len(fields) == 2 {
		arg = strings.TrimSpace(fields[1])
	}
	return cmd, arg, true
}

// needsContinuation reports whether src has unbalanced brackets/strings and
// so should keep accumulating lines before being treated as one entry (§6
// "detect unclosed brackets/strings for multiline continuation").
func needsContinuation(src string) bool {
	depth := 0
	inString := false
	escaped := false
	for _, r := range src {
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch r {
			case '\\':
				escaped = true
			case '\'', '"':
				inString = false
			}
			continue
		}
		switch r {
		case '\'', '"':
			inString = true
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
	}
	return depth > 0 || inString
}

// evalEntry re-checks the whole accumulated program (prior entries plus the
// fresh one) and, if that still type-checks, compiles and runs it to
// completion, printing the result of this entry.
//
// The whole accumulated program re-runs rather than just the fresh
// statements: the compiler's output is one flat Program with a single
// shared constant pool and absolute jump addresses (§4.4), so there is no
// incremental-link step that could append new top-level code to a VM still
// holding the prior run's slot layout. Side-effecting I/O built-ins are
// therefore re-observed on every turn — acceptable for a dev-loop REPL
// since --experimental-shitty-io defaults off here too.
func (r *REPL) evalEntry(entry string) {
	candidate := r.source.String() + entry

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
	prog, diags := compiler.Compile(result)
	if hasErrors(diags) {
		diag.Print(r.opts.Err, "<repl>", candidate, diags)
		return
	}

	// Close the previous turn's sockets now, immediately before re-opening
	// them: re-running the accumulated program would otherwise try to
	// tcp_listen on a port its own prior listener still holds.
	if r.lastVM != nil {
		r.lastVM.Close()
	}

	vm := vmrt.New(prog, vmrt.Options{IOEnabled: r.opts.Cfg.IOEnabled, StdLibEnabled: r.opts.Cfg.StdLibEnabled, Stdout: writerAdapter{r.opts.Out}})
	val, err := vm.Run()
	if err != nil {
		fmt.Fprintf(r.opts.Err, "runtime error: %s\n", err)
		r.lastVM = vm
		return
	}

	r.source.WriteString(entry)
	r.history = append(r.history, entry)
	r.lastResult = result
	r.lastVM = vm

	if _, isNone := val.(bytecode.None); !isNone {
		fmt.Fprintln(r.opts.Out, val.Inspect())
	}
}

func hasErrors(ds []diag.Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == diag.SeverityError {
			return true
		}
	}
	return false
}

type writerAdapter struct{ w io.Writer }

func (a writerAdapter) WriteString(s string) (int, error) { return io.WriteString(a.w, s) }
