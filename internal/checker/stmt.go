package checker

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/types"
)

func (c *Checker) checkStmt(stmt ast.Stmt) {
	switch d := stmt.(type) {
	case *ast.ExprStmt:
		c.inferExpr(d.X)
	case *ast.VarBinding:
		c.checkVarBinding(d)
	case *ast.ReturnStmt:
		c.checkReturn(d)
	case *ast.FunctionDeclaration:
		c.checkFunctionDecl(d)
	case *ast.StructDeclaration, *ast.EnumDeclaration:
		// already fully resolved during hoisting
	case *ast.ImportStmt, *ast.ErrorNode:
		// no semantic content to check
	case *ast.ExportStmt:
		c.checkStmt(d.Decl)
	}
}

func (c *Checker) checkVarBinding(d *ast.VarBinding) {
	valT := c.inferExpr(d.Value)
	if d.Type != nil {
		declared := c.resolveType(d.Type)
		c.unify(declared, valT, d.Value.Span(), "let binding")
		valT = declared
	}
	c.bindPattern(d.Pattern, valT)
	if d.IsConst {
		if ip, ok := d.Pattern.(*ast.IdentPattern); ok {
			c.env.Consts[ip.Name] = valT
		}
	}
}

// bindPattern introduces the names bound by a let/const/function-parameter
// pattern into the current scope.
func (c *Checker) bindPattern(pat ast.Pattern, t types.Type) {
	switch p := pat.(type) {
	case *ast.IdentPattern:
		c.env.Define(p.Name, t)
	case *ast.TuplePattern:
		tup, ok := types.Substitute(t, c.subs).(types.Tuple)
		if !ok {
			for _, el := range p.Elements {
				c.bindPattern(el, c.env.FreshVar())
			}
			return
		}
		for i, el := range p.Elements {
			if i < len(tup.Elems) {
				c.bindPattern(el, tup.Elems[i])
			}
		}
	case *ast.WildcardPattern:
		// binds nothing
	}
}

func (c *Checker) checkReturn(d *ast.ReturnStmt) {
	var t types.Type = types.None{}
	if d.Value != nil {
		t = c.inferExpr(d.Value)
	}
	if c.haveFuncCtx && c.currentFuncRet != nil {
		c.unify(c.currentFuncRet, t, d.Span(), "return statement")
	}
}

func (c *Checker) checkFunctionDecl(d *ast.FunctionDeclaration) {
	sig := c.env.Functions[d.Name]
	if sig == nil {
		return
	}
	c.env.PushScope()
	defer c.env.PopScope()
	for i, p := range d.Params {
		if i < len(sig.Params) {
			c.env.Define(p.Name, sig.Params[i])
		}
	}

	savedRet, savedErr, savedHave := c.currentFuncRet, c.currentFuncErr, c.haveFuncCtx
	c.currentFuncRet, c.currentFuncErr, c.haveFuncCtx = sig.Ret, sig.Err, true
	bodyT := c.inferBlock(d.Body)
	c.currentFuncRet, c.currentFuncErr, c.haveFuncCtx = savedRet, savedErr, savedHave

	if sig.Ret != nil {
		c.unify(sig.Ret, bodyT, d.Body.Span(), "function body of "+d.Name)
	}
}
