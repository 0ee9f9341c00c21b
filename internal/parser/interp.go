package parser

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/lexer"
	"github.com/alii/al/internal/token"
)

// splitInterpParts splits an interpolated string literal's already-unescaped
// content into literal-text and embedded-expression parts. `$name` embeds a
// bare identifier; `$(expr)` embeds an arbitrary expression.
func splitInterpParts(s string) []ast.InterpPart {
	var parts []ast.InterpPart
	var text []byte
	flush := func() {
		if len(text) > 0 {
			parts = append(parts, ast.InterpPart{Text: string(text)})
			text = nil
		}
	}
	i := 0
	for i < len(s) {
		if s[i] == '$' && i+1 < len(s) {
			if s[i+1] == '(' {
				depth := 1
				j := i + 2
				for j < len(s) && depth > 0 {
					switch s[j] {
					case '(':
						depth++
					case ')':
						depth--
					}
					if depth > 0 {
						j++
					}
				}
				flush()
				sub := s[i+2 : j]
				parts = append(parts, ast.InterpPart{Expr: parseSubExpr(sub), IsExpr: true})
				i = j + 1
				continue
			}
			if isIdentStart(s[i+1]) {
				j := i + 1
				for j < len(s) && isIdentCont(s[j]) {
					j++
				}
				flush()
				sub := s[i+1 : j]
				parts = append(parts, ast.InterpPart{Expr: &ast.Ident{Name: sub}, IsExpr: true})
				i = j
				continue
			}
		}
		text = append(text, s[i])
		i++
	}
	flush()
	return parts
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

// parseSubExpr parses an embedded `$(...)` expression using a fresh
// sub-parser over the captured substring.
func parseSubExpr(src string) ast.Expr {
	lx := lexer.New(src)
	toks := lx.Tokenize()
	sp := &Parser{toks: toks}
	if len(toks) == 0 || toks[0].Kind == token.EOF {
		return &ast.ErrorNode{}
	}
	return sp.parseExpr()
}
