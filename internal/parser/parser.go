// Package parser implements AL's recursive-descent parser with explicit
// precedence climbing and panic-mode error recovery (§4.2).
package parser

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/diag"
	"github.com/alii/al/internal/lexer"
	"github.com/alii/al/internal/token"
)

// Parser consumes a pre-scanned token stream and produces a syntactic AST.
type Parser struct {
	toks []token.Token
	pos  int

	Diagnostics diag.Bag
}

// Parse scans and parses source text in one call.
func Parse(source string) (*ast.File, []diag.Diagnostic) {
	lx := lexer.New(source)
	toks := lx.Tokenize()
	p := &Parser{toks: toks}
	p.Diagnostics = lx.Diagnostics
	f := p.parseFile()
	return f, p.Diagnostics.All()
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// skipNewlines consumes NEWLINE tokens; AL statements are newline/brace
// delimited rather than semicolon-delimited, but a trailing `;` is also
// accepted between statements.
func (p *Parser) skipNewlines() {
	for p.cur().Kind == token.NEWLINE || p.cur().Kind == token.SEMI {
		p.advance()
	}
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) expect(k token.Kind) token.Token {
	if p.cur().Kind == k {
		return p.advance()
	}
	p.errorf("expected %s, found %s", k, p.cur().Kind)
	return p.cur()
}

func (p *Parser) errorf(format string, args ...any) {
	t := p.cur()
	sp := diag.Span{StartLine: t.Line, StartCol: t.Column, EndLine: t.Line, EndCol: t.Column + len(t.Literal) + 1}
	p.Diagnostics.Errorf(diag.StageParse, sp, format, args...)
}

func (p *Parser) spanFrom(start token.Token) diag.Span {
	end := p.toks[p.pos-1]
	if p.pos == 0 {
		end = start
	}
	return diag.Span{
		StartLine: start.Line, StartCol: start.Column,
		EndLine: end.Line, EndCol: end.Column + len(end.Literal) + 1,
	}
}

func (p *Parser) parseFile() *ast.File {
	start := p.cur()
	f := &ast.File{}
	p.skipNewlines()
	for !p.at(token.EOF) {
		stmt := p.parseTopLevelStmt()
		if stmt != nil {
			f.Stmts = append(f.Stmts, stmt)
		}
		p.skipNewlines()
	}
	f.Sp = p.spanFrom(start)
	return f
}

// synchronizeTopLevel skips tokens until the next line starting with an
// identifier, keyword, or fn/struct/enum (§4.2).
func (p *Parser) synchronizeTopLevel() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.cur().Kind {
		case token.LBRACE, token.LPAREN, token.LBRACKET:
			depth++
		case token.RBRACE, token.RPAREN, token.RBRACKET:
			if depth > 0 {
				depth--
			}
		case token.NEWLINE:
			if depth == 0 {
				p.advance()
				switch p.cur().Kind {
				case token.FN, token.STRUCT, token.ENUM, token.LET, token.CONST, token.IMPORT, token.EXPORT, token.IDENT:
					return
				}
				continue
			}
		}
		p.advance()
	}
}

// synchronizeBlock skips to the next statement boundary inside a block.
func (p *Parser) synchronizeBlock() {
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
		case token.NEWLINE, token.SEMI:
			if depth == 0 {
				return
			}
		}
		p.advance()
	}
}
