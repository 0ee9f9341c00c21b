package lspserver

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/diag"
)

// handleDefinition resolves the top-level declaration whose name matches
// the identifier at the cursor. AL's checker discards scope information
// once it leaves a block (§4.3 hoisting-then-inference has no retained
// symbol table), so — like the teacher's handler_definition.go falls back
// to a name search when no indexed symbol table entry exists — this
// matches by name against the file's top-level declarations rather than
// threading full lexical scoping through the checker.
func (s *Server) handleDefinition(id interface{}, params DefinitionParams) {
	s.mu.RLock()
	doc, ok := s.documents[params.TextDocument.URI]
	s.mu.RUnlock()
	if !ok {
		s.sendResponse(ResponseMessage{ID: id, Result: nil})
		return
	}

	doc.mu.RLock()
	file := doc.file
	doc.mu.RUnlock()
	if file == nil {
		s.sendResponse(ResponseMessage{ID: id, Result: nil})
		return
	}

	name, ok := identAt(file, params.Position)
	if !ok {
		s.sendResponse(ResponseMessage{ID: id, Result: nil})
		return
	}

	span, ok := topLevelDeclSpan(file, name)
	if !ok {
		s.sendResponse(ResponseMessage{ID: id, Result: nil})
		return
	}

	s.sendResponse(ResponseMessage{
		ID: id,
		Result: Location{
			URI:   params.TextDocument.URI,
			Range: toLSPRange(span),
		},
	})
}

// identAt finds the Ident node (anywhere in the file) whose span contains
// pos and returns its name.
func identAt(file *ast.File, pos Position) (string, bool) {
	var name string
	found := false
	walkExprs(file, func(e ast.Expr) {
		if found {
			return
		}
		if id, ok := e.(*ast.Ident); ok && containsPosition(id.Span(), pos) {
			name, found = id.Name, true
		}
	})
	return name, found
}

// topLevelDeclSpan finds the function, struct, enum, or let/const binding
// declared with the given name at the top level (export-wrapped forms
// included) and returns its span.
func topLevelDeclSpan(file *ast.File, name string) (diag.Span, bool) {
	for _, stmt := range file.Stmts {
		switch d := stmt.(type) {
		case *ast.FunctionDeclaration:
			if d.Name == name {
				return d.Span(), true
			}
		case *ast.StructDeclaration:
			if d.Name == name {
				return d.Span(), true
			}
		case *ast.EnumDeclaration:
			if d.Name == name {
				return d.Span(), true
			}
		case *ast.VarBinding:
			if id, ok := d.Pattern.(*ast.IdentPattern); ok && id.Name == name {
				return d.Span(), true
			}
		case *ast.ExportStmt:
			if s, ok := exportedDeclSpan(d, name); ok {
				return s, true
			}
		}
	}
	return diag.Span{}, false
}

func exportedDeclSpan(export *ast.ExportStmt, name string) (diag.Span, bool) {
	switch d := export.Decl.(type) {
	case *ast.FunctionDeclaration:
		if d.Name == name {
			return d.Span(), true
		}
	case *ast.StructDeclaration:
		if d.Name == name {
			return d.Span(), true
		}
	case *ast.EnumDeclaration:
		if d.Name == name {
			return d.Span(), true
		}
	}
	return diag.Span{}, false
}
