package lspserver

import "github.com/alii/al/internal/diag"

// publishDiagnostics sends the whole current diagnostic set for doc, per
// the teacher's cmd/lsp/diagnostics.go convertDiagnostics pattern — adapted
// from funxy's token-based DiagnosticError to AL's span-based diag.Diagnostic.
func (s *Server) publishDiagnostics(uri string, doc *document) {
	doc.mu.RLock()
	ds := doc.diags
	doc.mu.RUnlock()

	out := make([]Diagnostic, 0, len(ds))
	for _, d := range ds {
		sev := SeverityError
		if d.Severity == diag.SeverityWarning {
			sev = SeverityWarning
		}
		out = append(out, Diagnostic{
			Range:    toLSPRange(d.Span),
			Severity: sev,
			Message:  d.Message,
			Source:   "al",
		})
	}

	s.sendNotification(NotificationMessage{
		Method: "textDocument/publishDiagnostics",
		Params: PublishDiagnosticsParams{URI: uri, Diagnostics: out},
	})
}

// toLSPRange converts AL's 1-based diag.Span to LSP's 0-based Range.
func toLSPRange(sp diag.Span) Range {
	return Range{
		Start: Position{Line: sp.StartLine - 1, Character: sp.StartCol - 1},
		End:   Position{Line: sp.EndLine - 1, Character: sp.EndCol - 1},
	}
}

// containsPosition reports whether a 0-based LSP position falls inside sp.
func containsPosition(sp diag.Span, pos Position) bool {
	line, col := pos.Line+1, pos.Character+1
	if line < sp.StartLine || line > sp.EndLine {
		return false
	}
	if line == sp.StartLine && col < sp.StartCol {
		return false
	}
	if line == sp.EndLine && col > sp.EndCol {
		return false
	}
	return true
}

// spanSize is a rough ordering used to pick the smallest (most specific)
// span containing a position, when several enclosing spans overlap it.
func spanSize(sp diag.Span) int {
	if sp.EndLine != sp.StartLine {
		return (sp.EndLine-sp.StartLine)*10000 + sp.EndCol
	}
	return sp.EndCol - sp.StartCol
}
