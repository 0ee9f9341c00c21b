package parser

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/token"
)

func (p *Parser) parseMatch() ast.Expr {
	start := p.advance() // 'match'
	subject := p.parseExpr()
	p.expect(token.LBRACE)
	p.skipNewlines()
	var arms []ast.MatchArm
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		before := p.Diagnostics.Len()
		startPos := p.pos
		pat := p.parsePattern()
		p.expect(token.ARROW)
		body := p.parseExpr()
		arms = append(arms, ast.MatchArm{Pattern: pat, Body: body})
		if p.at(token.COMMA) {
			p.advance()
		}
		p.skipNewlines()
		if p.Diagnostics.Len() > before && p.pos == startPos {
			p.advance()
		} else if p.Diagnostics.Len() > before {
			p.synchronizeMatchArm()
			p.skipNewlines()
		}
	}
	p.expect(token.RBRACE)
	return &ast.Match{Base: ast.NewBase(p.spanFrom(start)), Subject: subject, Arms: arms}
}

// synchronizeMatchArm skips to the next arm or closing brace (§4.2).
func (p *Parser) synchronizeMatchArm() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.cur().Kind {
		case token.LBRACE, token.LPAREN, token.LBRACKET:
			depth++
		case token.RBRACE:
			if depth == 0 {
				return
			}
			depth--
		case token.RPAREN, token.RBRACKET:
			if depth > 0 {
				depth--
			}
		case token.COMMA:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

// parsePattern parses a full match-arm pattern including `|` alternation,
// which binds loosest among pattern forms.
func (p *Parser) parsePattern() ast.Pattern {
	start := p.cur()
	first := p.parsePatternPrimary()
	if p.at(token.PIPE) {
		alts := []ast.Pattern{first}
		for p.at(token.PIPE) {
			p.advance()
			alts = append(alts, p.parsePatternPrimary())
		}
		return &ast.OrPattern{Base: ast.NewBase(p.spanFrom(start)), Alternatives: alts}
	}
	return first
}

func (p *Parser) parsePatternPrimary() ast.Pattern {
	start := p.cur()
	switch p.cur().Kind {
	case token.ELSE:
		p.advance()
		return &ast.WildcardPattern{Base: ast.NewBase(p.spanFrom(start))}
	case token.NUMBER_INT, token.NUMBER_FLOAT:
		lit := p.parsePrimary()
		if p.at(token.DOTDOT) {
			p.advance()
			end := p.parsePrimary()
			return &ast.RangePattern{Base: ast.NewBase(p.spanFrom(start)), Start: lit, End: end}
		}
		return &ast.LiteralPattern{Base: ast.NewBase(p.spanFrom(start)), Value: lit}
	case token.STRING:
		lit := p.parsePrimary()
		return &ast.LiteralPattern{Base: ast.NewBase(p.spanFrom(start)), Value: lit}
	case token.TRUE, token.FALSE:
		lit := p.parsePrimary()
		return &ast.LiteralPattern{Base: ast.NewBase(p.spanFrom(start)), Value: lit}
	case token.MINUS:
		lit := p.parseUnary()
		return &ast.LiteralPattern{Base: ast.NewBase(p.spanFrom(start)), Value: lit}
	case token.LPAREN:
		p.advance()
		var elems []ast.Pattern
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			elems = append(elems, p.parsePattern())
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		return &ast.TuplePattern{Base: ast.NewBase(p.spanFrom(start)), Elements: elems}
	case token.LBRACKET:
		return p.parseArrayPattern()
	case token.IDENT:
		return p.parseIdentOrEnumPattern()
	default:
		p.errorf("unexpected token %s in pattern", p.cur().Kind)
		p.advance()
		return &ast.WildcardPattern{Base: ast.NewBase(p.spanFrom(start))}
	}
}

func (p *Parser) parseArrayPattern() ast.Pattern {
	start := p.advance() // '['
	ap := &ast.ArrayPattern{}
	for !p.at(token.RBRACKET) && !p.at(token.EOF) {
		if p.at(token.DOTDOT) {
			p.advance()
			ap.HasSpread = true
			ap.SpreadName = p.expect(token.IDENT).Literal
		} else {
			ap.Elements = append(ap.Elements, p.parsePattern())
		}
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACKET)
	ap.Sp = p.spanFrom(start)
	return ap
}

// parseIdentOrEnumPattern handles `EnumName.Variant(...)`, `Variant(...)`,
// `Variant`, and plain identifier-binding patterns (§4.2).
func (p *Parser) parseIdentOrEnumPattern() ast.Pattern {
	start := p.cur()
	name := p.advance().Literal

	if p.at(token.DOT) {
		p.advance()
		variant := p.expect(token.IDENT).Literal
		evp := &ast.EnumVariantPattern{EnumName: name, HasEnumName: true, Variant: variant}
		p.finishEnumPatternPayload(evp)
		evp.Sp = p.spanFrom(start)
		return evp
	}

	if startsUpper(name) {
		// shorthand `Variant` / `Variant(...)`: enum resolved by the checker.
		evp := &ast.EnumVariantPattern{Variant: name}
		p.finishEnumPatternPayload(evp)
		evp.Sp = p.spanFrom(start)
		return evp
	}

	return &ast.IdentPattern{Base: ast.NewBase(p.spanFrom(start)), Name: name}
}

func (p *Parser) finishEnumPatternPayload(evp *ast.EnumVariantPattern) {
	if !p.at(token.LPAREN) {
		return
	}
	p.advance()
	evp.HasPayload = true
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		evp.SubPatterns = append(evp.SubPatterns, p.parsePattern())
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
}
