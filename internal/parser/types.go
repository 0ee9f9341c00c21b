package parser

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/token"
)

// parseTypeIdent parses a type annotation: `Int`, `?Int`, `[Int]`,
// `fn(Int, Int) Int`, `Box(Int)` (generic instantiation), or a bare
// lower-case identifier standing for a type variable (§3, §4.3).
func (p *Parser) parseTypeIdent() *ast.TypeIdent {
	start := p.cur()

	if p.at(token.QUESTION) {
		p.advance()
		elem := p.parseTypeIdent()
		t := ast.NewTypeIdent(p.spanFrom(start), "")
		t.IsOption = true
		t.Elem = elem
		return t
	}

	if p.at(token.LBRACKET) {
		p.advance()
		elem := p.parseTypeIdent()
		p.expect(token.RBRACKET)
		t := ast.NewTypeIdent(p.spanFrom(start), "")
		t.IsArray = true
		t.Elem = elem
		return t
	}

	if p.at(token.FN) {
		p.advance()
		p.expect(token.LPAREN)
		var params []*ast.TypeIdent
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			params = append(params, p.parseTypeIdent())
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		ret, errT := p.tryParseReturnType()
		t := ast.NewTypeIdent(p.spanFrom(start), "")
		t.IsFunction = true
		t.Params = params
		t.Return = ret
		t.Error = errT
		return t
	}

	name := p.expect(token.IDENT).Literal
	t := ast.NewTypeIdent(p.spanFrom(start), name)
	if p.at(token.LPAREN) {
		p.advance()
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			t.TypeArgs = append(t.TypeArgs, p.parseTypeIdent())
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
	}
	return t
}
