package lspserver

import "github.com/alii/al/internal/ast"

// walkExprs visits every expression node reachable from file, depth first,
// calling visit on each. There is no visitor method on AL's ast nodes (they
// are a plain closed sum, not a visitor-pattern tree), so hover/definition
// ground their traversal directly on the node shapes instead of an Accept
// dispatch.
func walkExprs(file *ast.File, visit func(ast.Expr)) {
	for _, stmt := range file.Stmts {
		walkStmt(stmt, visit)
	}
}

func walkStmt(stmt ast.Stmt, visit func(ast.Expr)) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		walkExpr(s.X, visit)
	case *ast.VarBinding:
		walkExpr(s.Value, visit)
	case *ast.FunctionDeclaration:
		walkExpr(s.Body, visit)
	case *ast.ReturnStmt:
		if s.Value != nil {
			walkExpr(s.Value, visit)
		}
	case *ast.ExportStmt:
		walkStmt(s.Decl, visit)
	}
}

func walkExpr(e ast.Expr, visit func(ast.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch x := e.(type) {
	case *ast.Ident:
	case *ast.InterpStringLit:
		for _, part := range x.Parts {
			if part.IsExpr {
				walkExpr(part.Expr, visit)
			}
		}
	case *ast.Block:
		for _, stmt := range x.Stmts {
			walkStmt(stmt, visit)
		}
	case *ast.If:
		walkExpr(x.Cond, visit)
		walkExpr(x.Then, visit)
		if x.Else != nil {
			walkExpr(x.Else, visit)
		}
	case *ast.Match:
		walkExpr(x.Subject, visit)
		for _, arm := range x.Arms {
			walkExpr(arm.Body, visit)
		}
	case *ast.OrExpr:
		walkExpr(x.Left, visit)
		if x.Handler != nil {
			walkExpr(x.Handler, visit)
		}
	case *ast.PropagateNone:
		walkExpr(x.X, visit)
	case *ast.BinaryExpr:
		walkExpr(x.Left, visit)
		walkExpr(x.Right, visit)
	case *ast.UnaryExpr:
		walkExpr(x.X, visit)
	case *ast.CallExpr:
		walkExpr(x.Callee, visit)
		for _, arg := range x.Args {
			walkExpr(arg, visit)
		}
	case *ast.PropertyAccess:
		walkExpr(x.Target, visit)
	case *ast.ArrayLit:
		for _, el := range x.Elements {
			walkExpr(el, visit)
		}
	case *ast.TupleLit:
		for _, el := range x.Elements {
			walkExpr(el, visit)
		}
	case *ast.ArrayIndex:
		walkExpr(x.Target, visit)
		walkExpr(x.Index, visit)
	case *ast.RangeExpr:
		walkExpr(x.Start, visit)
		walkExpr(x.End, visit)
	case *ast.StructInit:
		for _, f := range x.Fields {
			walkExpr(f.Value, visit)
		}
	case *ast.FunctionExpr:
		walkExpr(x.Body, visit)
	case *ast.Spread:
		walkExpr(x.X, visit)
	case *ast.ErrorExpr:
		if x.Payload != nil {
			walkExpr(x.Payload, visit)
		}
	case *ast.AssertExpr:
		walkExpr(x.Cond, visit)
	}
}
