package lspserver

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
)

// Server is the stdio JSON-RPC loop. One Server serves one client session
// for the process's lifetime (§6 `lsp`).
type Server struct {
	documents map[string]*document
	mu        sync.RWMutex
	reader    *bufio.Reader
	writer    io.Writer
	logger    *log.Logger
}

func New(r io.Reader, w io.Writer, logW io.Writer) *Server {
	return &Server{
		documents: map[string]*document{},
		reader:    bufio.NewReader(r),
		writer:    w,
		logger:    log.New(logW, "", log.LstdFlags),
	}
}

// Start reads Content-Length-framed JSON-RPC messages from the configured
// reader until EOF or an `exit` notification, grounded on the teacher's
// cmd/lsp/server.go header-then-body framing loop.
func (s *Server) Start() error {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading header: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "Content-Length: ") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(line, "Content-Length: "))
		if err != nil {
			s.logger.Printf("bad Content-Length: %v", err)
			continue
		}
		for {
			sep, err := s.reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading header separator: %w", err)
			}
			if strings.TrimRight(sep, "\r\n") == "" {
				break
			}
		}
		body := make([]byte, n)
		if _, err := io.ReadFull(s.reader, body); err != nil {
			return fmt.Errorf("reading body: %w", err)
		}
		if exit := s.dispatch(body); exit {
			return nil
		}
	}
}

// dispatch handles one decoded message and reports whether the session
// should end (an `exit` notification was received).
func (s *Server) dispatch(content []byte) (exit bool) {
	var base struct {
		ID     interface{} `json:"id,omitempty"`
		Method string      `json:"method"`
	}
	if err := json.Unmarshal(content, &base); err != nil {
		s.logger.Printf("malformed message: %v", err)
		return false
	}

	if base.ID != nil {
		s.handleRequest(base.ID, base.Method, content)
		return false
	}
	return s.handleNotification(base.Method, content)
}

func (s *Server) handleRequest(id interface{}, method string, content []byte) {
	switch method {
	case "initialize":
		var params InitializeParams
		json.Unmarshal(content, &RequestMessage{Params: &params})
		s.handleInitialize(id, params)
	case "shutdown":
		s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	case "textDocument/hover":
		var params HoverParams
		json.Unmarshal(content, &RequestMessage{Params: &params})
		s.handleHover(id, params)
	case "textDocument/definition":
		var params DefinitionParams
		json.Unmarshal(content, &RequestMessage{Params: &params})
		s.handleDefinition(id, params)
	default:
		s.sendResponse(ResponseMessage{
			Jsonrpc: "2.0",
			ID:      id,
			Error:   &RPCError{Code: -32601, Message: fmt.Sprintf("method not found: %s", method)},
		})
	}
}

func (s *Server) handleNotification(method string, content []byte) (exit bool) {
	switch method {
	case "initialized":
		return false
	case "textDocument/didOpen":
		var params DidOpenTextDocumentParams
		json.Unmarshal(content, &NotificationMessage{Params: &params})
		s.handleDidOpen(params)
	case "textDocument/didChange":
		var params DidChangeTextDocumentParams
		json.Unmarshal(content, &NotificationMessage{Params: &params})
		s.handleDidChange(params)
	case "textDocument/didClose":
		var params DidCloseTextDocumentParams
		json.Unmarshal(content, &NotificationMessage{Params: &params})
		s.handleDidClose(params)
	case "exit":
		return true
	}
	return false
}

func (s *Server) sendResponse(r ResponseMessage) {
	r.Jsonrpc = "2.0"
	s.sendMessage(r)
}

func (s *Server) sendNotification(n NotificationMessage) {
	n.Jsonrpc = "2.0"
	s.sendMessage(n)
}

func (s *Server) sendMessage(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		s.logger.Printf("marshal failed: %v", err)
		return
	}
	fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n%s", len(data), data)
}

func (s *Server) handleInitialize(id interface{}, params InitializeParams) {
	s.sendResponse(ResponseMessage{
		ID: id,
		Result: InitializeResult{
			Capabilities: ServerCapabilities{
				TextDocumentSync:   1,
				HoverProvider:      true,
				DefinitionProvider: true,
			},
		},
	})
}
