package parser

import (
	"strconv"

	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/token"
)

// parseExpr is the entry point for expression parsing: precedence climbing
// bottoms out at parseOr, the lowest-precedence level (§4.2).
func (p *Parser) parseExpr() ast.Expr {
	return p.parseOr()
}

// parseOr handles `x or fallback` / `x or { ... }` / `x or err -> { ... }`.
func (p *Parser) parseOr() ast.Expr {
	start := p.cur()
	left := p.parseLogicOr()
	for p.at(token.OR) {
		p.advance()
		oe := &ast.OrExpr{Left: left}
		if p.at(token.ERR) {
			p.advance()
			oe.ErrName = "err"
			if p.at(token.IDENT) {
				oe.ErrName = p.advance().Literal
			}
			oe.HasErrName = true
			p.expect(token.ARROW)
			if p.at(token.LBRACE) {
				oe.Handler = p.parseBlock()
			} else {
				oe.Handler = p.parseLogicOr()
			}
		} else if p.at(token.LBRACE) {
			oe.Handler = p.parseBlock()
		} else {
			oe.Handler = p.parseLogicOr()
		}
		oe.Sp = p.spanFrom(start)
		left = oe
	}
	return left
}

func (p *Parser) parseLogicOr() ast.Expr {
	start := p.cur()
	left := p.parseLogicAnd()
	for p.at(token.OROR) {
		p.advance()
		right := p.parseLogicAnd()
		left = &ast.BinaryExpr{Base: ast.NewBase(p.spanFrom(start)), Op: "||", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseLogicAnd() ast.Expr {
	start := p.cur()
	left := p.parseEquality()
	for p.at(token.ANDAND) {
		p.advance()
		right := p.parseEquality()
		left = &ast.BinaryExpr{Base: ast.NewBase(p.spanFrom(start)), Op: "&&", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	start := p.cur()
	left := p.parseComparison()
	for p.at(token.EQ) || p.at(token.NOT_EQ) {
		op := p.advance()
		right := p.parseComparison()
		left = &ast.BinaryExpr{Base: ast.NewBase(p.spanFrom(start)), Op: op.Literal, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expr {
	start := p.cur()
	left := p.parseRange()
	for p.at(token.LT) || p.at(token.LTE) || p.at(token.GT) || p.at(token.GTE) {
		op := p.advance()
		right := p.parseRange()
		left = &ast.BinaryExpr{Base: ast.NewBase(p.spanFrom(start)), Op: op.Literal, Left: left, Right: right}
	}
	return left
}

// parseRange handles `a..b`. Sits between comparison and additive so ranges
// can be compared/matched as a unit.
func (p *Parser) parseRange() ast.Expr {
	start := p.cur()
	left := p.parseAdditive()
	if p.at(token.DOTDOT) {
		p.advance()
		right := p.parseAdditive()
		return &ast.RangeExpr{Base: ast.NewBase(p.spanFrom(start)), Start: left, End: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	start := p.cur()
	left := p.parseMultiplicative()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Base: ast.NewBase(p.spanFrom(start)), Op: op.Literal, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	start := p.cur()
	left := p.parseUnary()
	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.PERCENT) {
		op := p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExpr{Base: ast.NewBase(p.spanFrom(start)), Op: op.Literal, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.cur()
	if p.at(token.BANG) || p.at(token.MINUS) {
		op := p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{Base: ast.NewBase(p.spanFrom(start)), Op: op.Literal, X: x}
	}
	return p.parsePostfix()
}

// parsePostfix handles call, index, property access, and the `!`
// propagation suffix, left-to-right.
func (p *Parser) parsePostfix() ast.Expr {
	start := p.cur()
	expr := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.LPAREN:
			p.advance()
			var args []ast.Expr
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				args = append(args, p.parseSpreadableExpr())
				if p.at(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
			expr = &ast.CallExpr{Base: ast.NewBase(p.spanFrom(start)), Callee: expr, Args: args}
		case token.LBRACKET:
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBRACKET)
			expr = &ast.ArrayIndex{Base: ast.NewBase(p.spanFrom(start)), Target: expr, Index: idx}
		case token.DOT:
			p.advance()
			name := p.expect(token.IDENT).Literal
			expr = &ast.PropertyAccess{Base: ast.NewBase(p.spanFrom(start)), Target: expr, Name: name}
		case token.BANG:
			p.advance()
			expr = &ast.PropagateNone{Base: ast.NewBase(p.spanFrom(start)), X: expr}
		default:
			return expr
		}
	}
}

func (p *Parser) parseSpreadableExpr() ast.Expr {
	if p.at(token.DOTDOT) {
		start := p.advance()
		x := p.parseExpr()
		return &ast.Spread{Base: ast.NewBase(p.spanFrom(start)), X: x}
	}
	return p.parseExpr()
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.cur()
	switch p.cur().Kind {
	case token.NUMBER_INT:
		lit := p.advance().Literal
		v, _ := strconv.ParseInt(lit, 10, 64)
		return &ast.NumberLit{Base: ast.NewBase(p.spanFrom(start)), IntValue: v, Raw: lit}
	case token.NUMBER_FLOAT:
		lit := p.advance().Literal
		v, _ := strconv.ParseFloat(lit, 64)
		return &ast.NumberLit{Base: ast.NewBase(p.spanFrom(start)), IsFloat: true, FloatValue: v, Raw: lit}
	case token.STRING:
		lit := p.advance().Literal
		return &ast.StringLit{Base: ast.NewBase(p.spanFrom(start)), Value: lit}
	case token.STRING_INTERP:
		lit := p.advance().Literal
		return &ast.InterpStringLit{Base: ast.NewBase(p.spanFrom(start)), Parts: splitInterpParts(lit)}
	case token.CHAR:
		lit := p.advance().Literal
		var r rune
		for _, c := range lit {
			r = c
			break
		}
		return &ast.CharLit{Base: ast.NewBase(p.spanFrom(start)), Value: r}
	case token.TRUE:
		p.advance()
		return &ast.BoolLit{Base: ast.NewBase(p.spanFrom(start)), Value: true}
	case token.FALSE:
		p.advance()
		return &ast.BoolLit{Base: ast.NewBase(p.spanFrom(start)), Value: false}
	case token.NONE:
		p.advance()
		return &ast.NoneLit{Base: ast.NewBase(p.spanFrom(start))}
	case token.ASSERT:
		return p.parseAssert()
	case token.ERROR:
		return p.parseErrorExpr()
	case token.IDENT:
		return p.parseIdentOrStructInitOrCall()
	case token.IF:
		return p.parseIf()
	case token.MATCH:
		return p.parseMatch()
	case token.FN:
		return p.parseFunctionExpr()
	case token.LBRACE:
		return p.parseBlock()
	case token.LPAREN:
		p.advance()
		first := p.parseExpr()
		if p.at(token.COMMA) {
			elems := []ast.Expr{first}
			for p.at(token.COMMA) {
				p.advance()
				if p.at(token.RPAREN) {
					break
				}
				elems = append(elems, p.parseExpr())
			}
			p.expect(token.RPAREN)
			return &ast.TupleLit{Base: ast.NewBase(p.spanFrom(start)), Elements: elems}
		}
		p.expect(token.RPAREN)
		return first
	case token.LBRACKET:
		p.advance()
		var elems []ast.Expr
		for !p.at(token.RBRACKET) && !p.at(token.EOF) {
			elems = append(elems, p.parseSpreadableExpr())
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RBRACKET)
		return &ast.ArrayLit{Base: ast.NewBase(p.spanFrom(start)), Elements: elems}
	default:
		p.errorf("unexpected token %s in expression", p.cur().Kind)
		p.advance()
		return &ast.ErrorNode{Base: ast.NewBase(p.spanFrom(start))}
	}
}

func (p *Parser) parseErrorExpr() ast.Expr {
	start := p.advance() // 'error'
	payload := p.parseExpr()
	return &ast.ErrorExpr{Base: ast.NewBase(p.spanFrom(start)), Payload: payload}
}

func (p *Parser) parseAssert() ast.Expr {
	start := p.advance() // 'assert'
	cond := p.parseExpr()
	return &ast.AssertExpr{Base: ast.NewBase(p.spanFrom(start)), Cond: cond}
}

// parseIdentOrStructInitOrCall disambiguates `Name { field: val, ... }`
// (struct init) from a plain identifier reference; calls are handled by
// parsePostfix on return.
func (p *Parser) parseIdentOrStructInitOrCall() ast.Expr {
	start := p.cur()
	name := p.advance().Literal

	if p.at(token.LBRACE) && startsUpper(name) {
		return p.parseStructInitBody(start, name)
	}
	return &ast.Ident{Base: ast.NewBase(p.spanFrom(start)), Name: name}
}

func startsUpper(s string) bool {
	if s == "" {
		return false
	}
	return s[0] >= 'A' && s[0] <= 'Z'
}

func (p *Parser) parseStructInitBody(start token.Token, name string) ast.Expr {
	p.expect(token.LBRACE)
	p.skipNewlines()
	var fields []ast.StructFieldInit
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		fname := p.expect(token.IDENT).Literal
		p.expect(token.COLON)
		val := p.parseExpr()
		fields = append(fields, ast.StructFieldInit{Name: fname, Value: val})
		if p.at(token.COMMA) {
			p.advance()
		}
		p.skipNewlines()
	}
	p.expect(token.RBRACE)
	return &ast.StructInit{Base: ast.NewBase(p.spanFrom(start)), TypeName: name, Fields: fields}
}

func (p *Parser) parseIf() ast.Expr {
	start := p.advance() // 'if'
	cond := p.parseExpr()
	then := p.parseBlock()
	ie := &ast.If{Cond: cond, Then: then}
	if p.at(token.ELSE) {
		p.advance()
		if p.at(token.IF) {
			ie.Else = p.parseIf()
		} else {
			ie.Else = p.parseBlock()
		}
	}
	ie.Sp = p.spanFrom(start)
	return ie
}

func (p *Parser) parseFunctionExpr() ast.Expr {
	start := p.advance() // 'fn'
	params := p.parseParamList()
	ret, errT := p.tryParseReturnType()
	body := p.parseBlock()
	return &ast.FunctionExpr{
		Base: ast.NewBase(p.spanFrom(start)), Params: params,
		ReturnType: ret, ErrorType: errT, Body: body,
	}
}
