package lspserver

import "github.com/alii/al/internal/checker"

// handleHover resolves the type of the smallest checked span containing
// the cursor and renders it as hover Markdown, optionally prefixed with the
// `//` doc comment immediately above the enclosing declaration (§6 "for
// hover, return the type string and (optional) doc comment of the
// identifier whose span contains the cursor").
func (s *Server) handleHover(id interface{}, params HoverParams) {
	s.mu.RLock()
	doc, ok := s.documents[params.TextDocument.URI]
	s.mu.RUnlock()
	if !ok {
		s.sendResponse(ResponseMessage{ID: id, Result: nil})
		return
	}

	doc.mu.RLock()
	result := doc.result
	content := doc.content
	doc.mu.RUnlock()

	if result == nil {
		s.sendResponse(ResponseMessage{ID: id, Result: nil})
		return
	}

	best, found := smallestEnclosing(result.SpanTypes, params.Position)
	if !found {
		s.sendResponse(ResponseMessage{ID: id, Result: nil})
		return
	}

	value := "```\n" + best.Type.String() + "\n```"
	if docComment := docCommentAbove(content, best.Span.StartLine); docComment != "" {
		value = docComment + "\n\n" + value
	}

	rng := toLSPRange(best.Span)
	s.sendResponse(ResponseMessage{
		ID: id,
		Result: Hover{
			Contents: MarkupContent{Kind: "markdown", Value: value},
			Range:    &rng,
		},
	})
}

func smallestEnclosing(spans []checker.SpanType, pos Position) (checker.SpanType, bool) {
	var best checker.SpanType
	found := false
	for _, st := range spans {
		if !containsPosition(st.Span, pos) {
			continue
		}
		if !found || spanSize(st.Span) < spanSize(best.Span) {
			best = st
			found = true
		}
	}
	return best, found
}
