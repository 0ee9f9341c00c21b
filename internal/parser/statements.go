package parser

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/token"
)

func (p *Parser) parseTopLevelStmt() ast.Stmt {
	switch p.cur().Kind {
	case token.IMPORT:
		return p.parseImport()
	case token.EXPORT:
		return p.parseExport()
	case token.STRUCT:
		return p.parseStructDecl()
	case token.ENUM:
		return p.parseEnumDecl()
	case token.FN:
		return p.parseFunctionDecl()
	case token.LET, token.CONST:
		return p.parseVarBinding()
	default:
		return p.parseStmt()
	}
}

// parseStmt parses one statement inside a block.
func (p *Parser) parseStmt() ast.Stmt {
	start := p.cur()
	switch p.cur().Kind {
	case token.STRUCT:
		return p.parseStructDecl()
	case token.ENUM:
		return p.parseEnumDecl()
	case token.FN:
		if p.peekAt(1).Kind == token.IDENT {
			return p.parseFunctionDecl()
		}
	case token.LET, token.CONST:
		return p.parseVarBinding()
	case token.RETURN:
		return p.parseReturn()
	case token.ASSERT:
		e := p.parseAssert()
		return &ast.ExprStmt{Base: ast.NewBase(p.spanFrom(start)), X: e}
	}

	e := p.parseExpr()
	return &ast.ExprStmt{Base: ast.NewBase(p.spanFrom(start)), X: e}
}

func (p *Parser) parseImport() ast.Stmt {
	start := p.advance() // 'import'
	path := ""
	if p.at(token.STRING) {
		path = p.advance().Literal
	} else {
		p.errorf("expected import path string")
	}
	imp := &ast.ImportStmt{Path: path}
	if p.at(token.IDENT) && p.cur().Literal == "as" {
		p.advance()
		imp.Alias = p.expect(token.IDENT).Literal
		imp.HasAlias = true
	}
	imp.Sp = p.spanFrom(start)
	return imp
}

func (p *Parser) parseExport() ast.Stmt {
	start := p.advance() // 'export'
	decl := p.parseTopLevelStmt()
	return &ast.ExportStmt{Base: ast.NewBase(p.spanFrom(start)), Decl: decl}
}

func (p *Parser) parseReturn() ast.Stmt {
	start := p.advance() // 'return'
	var val ast.Expr
	if !p.at(token.NEWLINE) && !p.at(token.RBRACE) && !p.at(token.SEMI) && !p.at(token.EOF) {
		val = p.parseExpr()
	}
	return &ast.ReturnStmt{Base: ast.NewBase(p.spanFrom(start)), Value: val}
}

func (p *Parser) parseVarBinding() ast.Stmt {
	start := p.advance() // 'let' or 'const'
	isConst := start.Kind == token.CONST

	pat := p.parseBindingPattern()

	var ty *ast.TypeIdent
	if p.at(token.IDENT) || p.at(token.LBRACKET) || p.at(token.QUESTION) {
		// explicit type annotation before '='
		if !p.at(token.ASSIGN) {
			ty = p.parseTypeIdent()
		}
	}
	p.expect(token.ASSIGN)
	val := p.parseExpr()
	return &ast.VarBinding{Base: ast.NewBase(p.spanFrom(start)), IsConst: isConst, Pattern: pat, Type: ty, Value: val}
}

// parseBindingPattern parses the left side of a let/const/match-arm
// binding: a plain identifier or a tuple-destructuring pattern.
func (p *Parser) parseBindingPattern() ast.Pattern {
	start := p.cur()
	if p.at(token.LPAREN) {
		p.advance()
		var elems []ast.Pattern
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			elems = append(elems, p.parseBindingPattern())
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		return &ast.TuplePattern{Base: ast.NewBase(p.spanFrom(start)), Elements: elems}
	}
	name := p.expect(token.IDENT).Literal
	return &ast.IdentPattern{Base: ast.NewBase(p.spanFrom(start)), Name: name}
}

func (p *Parser) parseFunctionDecl() ast.Stmt {
	start := p.advance() // 'fn'
	name := p.expect(token.IDENT).Literal
	typeParams := p.tryParseTypeParams()
	params := p.parseParamList()
	retType, errType := p.tryParseReturnType()
	body := p.parseBlock()
	return &ast.FunctionDeclaration{
		Base: ast.NewBase(p.spanFrom(start)), Name: name, TypeParams: typeParams,
		Params: params, ReturnType: retType, ErrorType: errType, Body: body,
	}
}

// tryParseTypeParams always returns nil: AL has no explicit generic
// parameter list. Type variables are bare lower-case identifiers in type
// position, and the checker treats them as vars by convention (§4.3).
func (p *Parser) tryParseTypeParams() []string {
	return nil
}

func (p *Parser) parseParamList() []ast.Param {
	p.expect(token.LPAREN)
	var params []ast.Param
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		name := p.expect(token.IDENT).Literal
		var ty *ast.TypeIdent
		if !p.at(token.COMMA) && !p.at(token.RPAREN) {
			ty = p.parseTypeIdent()
		}
		params = append(params, ast.Param{Name: name, Type: ty})
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return params
}

// tryParseReturnType parses an optional return type, possibly `T!E`.
func (p *Parser) tryParseReturnType() (ret, errT *ast.TypeIdent) {
	if p.at(token.LBRACE) {
		return nil, nil
	}
	ret = p.parseTypeIdent()
	if p.at(token.BANG) {
		p.advance()
		errT = p.parseTypeIdent()
	}
	return ret, errT
}

func (p *Parser) parseStructDecl() ast.Stmt {
	start := p.advance() // 'struct'
	name := p.expect(token.IDENT).Literal
	var typeParams []string
	if p.at(token.LPAREN) && isLowerIdentList(p) {
		typeParams = p.parseTypeParamParenList()
	}
	p.expect(token.LBRACE)
	p.skipNewlines()
	var fields []ast.FieldDecl
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		fname := p.expect(token.IDENT).Literal
		ftype := p.parseTypeIdent()
		fields = append(fields, ast.FieldDecl{Name: fname, Type: ftype})
		if p.at(token.COMMA) {
			p.advance()
		}
		p.skipNewlines()
	}
	p.expect(token.RBRACE)
	return &ast.StructDeclaration{Base: ast.NewBase(p.spanFrom(start)), Name: name, TypeParams: typeParams, Fields: fields}
}

func (p *Parser) parseEnumDecl() ast.Stmt {
	start := p.advance() // 'enum'
	name := p.expect(token.IDENT).Literal
	var typeParams []string
	if p.at(token.LPAREN) && isLowerIdentList(p) {
		typeParams = p.parseTypeParamParenList()
	}
	p.expect(token.LBRACE)
	p.skipNewlines()
	var variants []ast.VariantDecl
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		vname := p.expect(token.IDENT).Literal
		var payload []*ast.TypeIdent
		if p.at(token.LPAREN) {
			p.advance()
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				payload = append(payload, p.parseTypeIdent())
				if p.at(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
		}
		variants = append(variants, ast.VariantDecl{Name: vname, Payload: payload})
		if p.at(token.COMMA) {
			p.advance()
		}
		p.skipNewlines()
	}
	p.expect(token.RBRACE)
	return &ast.EnumDeclaration{Base: ast.NewBase(p.spanFrom(start)), Name: name, TypeParams: typeParams, Variants: variants}
}

// isLowerIdentList heuristically decides whether a parenthesized list after
// a struct/enum name is a generic type-parameter list (all lower-case bare
// identifiers) rather than something else.
func isLowerIdentList(p *Parser) bool {
	i := 1
	if p.peekAt(i).Kind != token.IDENT {
		return false
	}
	return true
}

func (p *Parser) parseTypeParamParenList() []string {
	p.expect(token.LPAREN)
	var names []string
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		names = append(names, p.expect(token.IDENT).Literal)
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return names
}

func (p *Parser) parseBlock() *ast.Block {
	start := p.expect(token.LBRACE)
	b := &ast.Block{}
	p.skipNewlines()
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		stmt := p.parseStmtRecovering()
		if stmt != nil {
			b.Stmts = append(b.Stmts, stmt)
		}
		p.skipNewlines()
	}
	p.expect(token.RBRACE)
	b.Sp = p.spanFrom(start)
	return b
}

// parseStmtRecovering parses one block statement, recovering to the next
// statement boundary on a parse error (§4.2).
func (p *Parser) parseStmtRecovering() (result ast.Stmt) {
	before := p.Diagnostics.Len()
	startPos := p.pos
	stmt := p.parseStmt()
	if p.Diagnostics.Len() > before && p.pos == startPos {
		// no progress was made; avoid infinite loop
		p.advance()
	}
	if p.Diagnostics.Len() > before {
		p.synchronizeBlock()
	}
	return stmt
}

