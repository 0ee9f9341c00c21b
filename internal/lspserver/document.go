package lspserver

import (
	"strings"
	"sync"

	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/checker"
	"github.com/alii/al/internal/diag"
	"github.com/alii/al/internal/parser"
)

// document mirrors the teacher's DocumentState: the last-seen source plus
// the result of re-running the pipeline over it, cached for hover and
// go-to-definition to reuse without re-parsing per request.
type document struct {
	mu      sync.RWMutex
	content string
	file    *ast.File
	result  *checker.Result
	diags   []diag.Diagnostic
}

func (s *Server) handleDidOpen(params DidOpenTextDocumentParams) {
	doc := &document{}
	s.analyze(doc, params.TextDocument.Text)

	s.mu.Lock()
	s.documents[params.TextDocument.URI] = doc
	s.mu.Unlock()

	s.publishDiagnostics(params.TextDocument.URI, doc)
}

func (s *Server) handleDidChange(params DidChangeTextDocumentParams) {
	if len(params.ContentChanges) == 0 {
		return
	}
	uri := params.TextDocument.URI
	s.mu.RLock()
	doc, ok := s.documents[uri]
	s.mu.RUnlock()
	if !ok {
		return
	}
	s.analyze(doc, params.ContentChanges[0].Text)
	s.publishDiagnostics(uri, doc)
}

func (s *Server) handleDidClose(params DidCloseTextDocumentParams) {
	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()
}

// analyze re-runs parse+check over newContent, replacing doc's cached
// state. Diagnostics accumulate across both stages: a parse failure stores
// the newly parsed tree in doc.file but clears doc.result, so hover has no
// type information and definition searches the new tree, never a stale one.
func (s *Server) analyze(doc *document, newContent string) {
	file, parseDiags := parser.Parse(newContent)

	doc.mu.Lock()
	defer doc.mu.Unlock()
	doc.content = newContent
	doc.file = file
	doc.diags = parseDiags

	if hasErrors(parseDiags) {
		doc.result = nil
		return
	}
	result, checkDiags := checker.Check(file)
	doc.result = result
	doc.diags = append(doc.diags, checkDiags...)
}

func hasErrors(ds []diag.Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == diag.SeverityError {
			return true
		}
	}
	return false
}

// docCommentAbove returns the contiguous block of `//` line comments
// immediately preceding declLine (1-based), joined with newlines, or "" if
// there is none. AL's AST has no doc-comment field (§2 GLOSSARY has no
// comment node), so hover recovers it directly from source text the same
// way a reader would.
func docCommentAbove(source string, declLine int) string {
	lines := strings.Split(source, "\n")
	if declLine < 1 || declLine > len(lines)+1 {
		return ""
	}
	var comment []string
	for i := declLine - 2; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, "//") {
			break
		}
		comment = append([]string{strings.TrimPrefix(strings.TrimPrefix(trimmed, "//"), " ")}, comment...)
	}
	return strings.Join(comment, "\n")
}
