package checker

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/diag"
	"github.com/alii/al/internal/types"
)

func (c *Checker) unify(want, got types.Type, span diag.Span, context string) bool {
	if types.Unify(want, got, c.subs) {
		return true
	}
	c.errorf(span, "type mismatch in %s: expected %s, found %s",
		context, types.Substitute(want, c.subs), types.Substitute(got, c.subs))
	return false
}

func (c *Checker) inferExpr(e ast.Expr) types.Type {
	switch n := e.(type) {
	case *ast.NumberLit:
		if n.IsFloat {
			return c.record(e, types.Float)
		}
		return c.record(e, types.Int)
	case *ast.StringLit:
		return c.record(e, types.String)
	case *ast.CharLit:
		return c.record(e, types.String)
	case *ast.InterpStringLit:
		for _, part := range n.Parts {
			if part.IsExpr {
				c.inferExpr(part.Expr)
			}
		}
		return c.record(e, types.String)
	case *ast.BoolLit:
		return c.record(e, types.Bool)
	case *ast.NoneLit:
		return c.record(e, types.None{})
	case *ast.Ident:
		return c.inferIdent(n)
	case *ast.Block:
		return c.record(e, c.inferBlock(n))
	case *ast.If:
		return c.record(e, c.inferIf(n))
	case *ast.Match:
		return c.record(e, c.inferMatch(n))
	case *ast.OrExpr:
		return c.record(e, c.inferOr(n))
	case *ast.PropagateNone:
		return c.record(e, c.inferPropagate(n))
	case *ast.BinaryExpr:
		return c.record(e, c.inferBinary(n))
	case *ast.UnaryExpr:
		return c.record(e, c.inferUnary(n))
	case *ast.CallExpr:
		return c.record(e, c.inferCall(n))
	case *ast.PropertyAccess:
		return c.record(e, c.inferProperty(n))
	case *ast.ArrayLit:
		return c.record(e, c.inferArrayLit(n))
	case *ast.TupleLit:
		elems := make([]types.Type, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = c.inferExpr(el)
		}
		return c.record(e, types.Tuple{Elems: elems})
	case *ast.ArrayIndex:
		return c.record(e, c.inferIndex(n))
	case *ast.RangeExpr:
		c.unify(types.Int, c.inferExpr(n.Start), n.Start.Span(), "range start")
		c.unify(types.Int, c.inferExpr(n.End), n.End.Span(), "range end")
		return c.record(e, types.Array{Elem: types.Int})
	case *ast.StructInit:
		return c.record(e, c.inferStructInit(n))
	case *ast.FunctionExpr:
		return c.record(e, c.inferFunctionExpr(n))
	case *ast.Spread:
		return c.record(e, c.inferExpr(n.X))
	case *ast.ErrorExpr:
		c.inferExpr(n.Payload)
		return c.record(e, types.Result{Success: c.env.FreshVar(), Error: types.String})
	case *ast.AssertExpr:
		c.unify(types.Bool, c.inferExpr(n.Cond), n.Cond.Span(), "assert condition")
		return c.record(e, types.None{})
	case *ast.ErrorNode:
		return c.record(e, c.env.FreshVar())
	}
	return c.env.FreshVar()
}

func (c *Checker) inferIdent(n *ast.Ident) types.Type {
	if t, ok := c.env.Lookup(n.Name); ok {
		return c.record(n, t)
	}
	// Enum shorthand: a bare Variant identifier used as a value (unit
	// variant) when unambiguous (§4.3 Enum shorthand inference).
	if en := c.env.ResolveVariant(n.Name); en != nil {
		return c.record(n, en)
	}
	c.errorf(n.Span(), "undefined variable %q", n.Name)
	return c.record(n, c.env.FreshVar())
}

func (c *Checker) inferBlock(b *ast.Block) types.Type {
	c.env.PushScope()
	defer c.env.PopScope()
	var last types.Type = types.None{}
	for i, stmt := range b.Stmts {
		if es, ok := stmt.(*ast.ExprStmt); ok && i == len(b.Stmts)-1 {
			last = c.inferExpr(es.X)
			continue
		}
		c.checkStmt(stmt)
	}
	return last
}

func (c *Checker) inferIf(n *ast.If) types.Type {
	c.unify(types.Bool, c.inferExpr(n.Cond), n.Cond.Span(), "if condition")
	thenT := c.inferExpr(n.Then)
	if n.Else == nil {
		return types.Option{Inner: thenT}
	}
	elseT := c.inferExpr(n.Else)
	c.unify(thenT, elseT, n.Else.Span(), "if/else branches")
	return thenT
}

func (c *Checker) inferOr(n *ast.OrExpr) types.Type {
	left := c.inferExpr(n.Left)

	var inner types.Type
	var errT types.Type
	switch lt := types.Substitute(left, c.subs).(type) {
	case types.Option:
		inner = lt.Inner
	case types.Result:
		inner = lt.Success
		errT = lt.Error
	default:
		inner = lt
	}

	if n.HasErrName {
		c.env.PushScope()
		if errT != nil {
			c.env.Define(n.ErrName, errT)
		} else {
			c.env.Define(n.ErrName, c.env.FreshVar())
		}
	}
	fallback := c.inferExpr(n.Handler)
	if n.HasErrName {
		c.env.PopScope()
	}
	c.unify(inner, fallback, n.Handler.Span(), "or fallback")
	return inner
}

func (c *Checker) inferPropagate(n *ast.PropagateNone) types.Type {
	x := types.Substitute(c.inferExpr(n.X), c.subs)
	if !c.haveFuncCtx {
		c.errorf(n.Span(), "'!' propagation used outside a function body")
	}
	switch xt := x.(type) {
	case types.Option:
		if c.haveFuncCtx && c.currentFuncRet != nil {
			c.unify(types.Option{Inner: c.currentFuncRet}, x, n.Span(), "propagated option return")
		}
		return xt.Inner
	case types.Result:
		if c.haveFuncCtx && c.currentFuncErr != nil {
			c.unify(c.currentFuncErr, xt.Error, n.Span(), "propagated error type")
		}
		return xt.Success
	default:
		c.errorf(n.Span(), "'!' requires an optional or fallible (T!E) expression, found %s", x)
		return c.env.FreshVar()
	}
}

func (c *Checker) inferBinary(n *ast.BinaryExpr) types.Type {
	l := c.inferExpr(n.Left)
	r := c.inferExpr(n.Right)
	switch n.Op {
	case "+", "-", "*", "/", "%":
		lt := types.Substitute(l, c.subs)
		if types.Equal(lt, types.String) && n.Op == "+" {
			c.unify(types.String, r, n.Right.Span(), "string concatenation")
			return types.String
		}
		rt := types.Substitute(r, c.subs)
		if types.Equal(lt, types.Float) || types.Equal(rt, types.Float) {
			// Int widens to Float: only a non-Int operand is unified with Float.
			if !types.Equal(lt, types.Int) {
				c.unify(types.Float, l, n.Left.Span(), "arithmetic operand")
			}
			if !types.Equal(rt, types.Int) {
				c.unify(types.Float, r, n.Right.Span(), "arithmetic operand")
			}
			return types.Float
		}
		c.unify(types.Int, l, n.Left.Span(), "arithmetic operand")
		c.unify(types.Int, r, n.Right.Span(), "arithmetic operand")
		return types.Int
	case "==", "!=":
		c.unify(l, r, n.Span(), "equality operands")
		return types.Bool
	case "<", "<=", ">", ">=":
		c.unify(l, r, n.Span(), "comparison operands")
		return types.Bool
	case "&&", "||":
		c.unify(types.Bool, l, n.Left.Span(), "logical operand")
		c.unify(types.Bool, r, n.Right.Span(), "logical operand")
		return types.Bool
	}
	return c.env.FreshVar()
}

func (c *Checker) inferUnary(n *ast.UnaryExpr) types.Type {
	x := c.inferExpr(n.X)
	switch n.Op {
	case "!":
		c.unify(types.Bool, x, n.X.Span(), "logical negation")
		return types.Bool
	case "-":
		return x
	}
	return x
}

func (c *Checker) inferArrayLit(n *ast.ArrayLit) types.Type {
	if len(n.Elements) == 0 {
		return types.Array{Elem: c.env.FreshVar()}
	}
	elem := c.inferExpr(n.Elements[0])
	for _, el := range n.Elements[1:] {
		c.unify(elem, c.inferExpr(el), el.Span(), "array element")
	}
	return types.Array{Elem: elem}
}

func (c *Checker) inferIndex(n *ast.ArrayIndex) types.Type {
	target := types.Substitute(c.inferExpr(n.Target), c.subs)
	idx := c.inferExpr(n.Index)
	if arr, ok := target.(types.Array); ok {
		if _, isRange := idx.(types.Array); isRange {
			return arr
		}
		c.unify(types.Int, idx, n.Index.Span(), "array index")
		return arr.Elem
	}
	if tup, ok := target.(types.Tuple); ok {
		if len(tup.Elems) > 0 {
			return tup.Elems[0]
		}
	}
	c.errorf(n.Target.Span(), "cannot index %s", target)
	return c.env.FreshVar()
}

func (c *Checker) inferProperty(n *ast.PropertyAccess) types.Type {
	target := types.Substitute(c.inferExpr(n.Target), c.subs)
	if tup, ok := target.(types.Tuple); ok {
		idx := tupleFieldIndex(n.Name)
		if idx >= 0 && idx < len(tup.Elems) {
			return tup.Elems[idx]
		}
	}
	if s, ok := target.(*types.Struct); ok {
		full := c.env.Structs[s.Name]
		if full != nil {
			if ft, ok := full.Fields[n.Name]; ok {
				return ft
			}
		}
		c.errorf(n.Span(), "struct %s has no field %q", s.Name, n.Name)
		return c.env.FreshVar()
	}
	c.errorf(n.Span(), "cannot access field %q on %s", n.Name, target)
	return c.env.FreshVar()
}

func tupleFieldIndex(name string) int {
	// Tuple fields are accessed positionally as .0, .1, ...
	n := 0
	any := false
	for _, ch := range name {
		if ch < '0' || ch > '9' {
			return -1
		}
		any = true
		n = n*10 + int(ch-'0')
	}
	if !any {
		return -1
	}
	return n
}

func (c *Checker) inferStructInit(n *ast.StructInit) types.Type {
	s, ok := c.env.Structs[n.TypeName]
	if !ok {
		c.errorf(n.Span(), "undefined struct %q", n.TypeName)
		for _, f := range n.Fields {
			c.inferExpr(f.Value)
		}
		return c.env.FreshVar()
	}
	seen := map[string]bool{}
	for _, f := range n.Fields {
		seen[f.Name] = true
		got := c.inferExpr(f.Value)
		if want, ok := s.Fields[f.Name]; ok {
			c.unify(want, got, f.Value.Span(), "struct field "+f.Name)
		} else {
			c.errorf(n.Span(), "struct %s has no field %q", s.Name, f.Name)
		}
	}
	for _, fname := range s.FieldOrder {
		if !seen[fname] {
			c.errorf(n.Span(), "missing field %q in %s initializer", fname, s.Name)
		}
	}
	return s
}

func (c *Checker) inferFunctionExpr(n *ast.FunctionExpr) types.Type {
	c.env.PushScope()
	defer c.env.PopScope()
	params := make([]types.Type, len(n.Params))
	for i, p := range n.Params {
		var pt types.Type
		if p.Type != nil {
			pt = c.resolveType(p.Type)
		} else {
			pt = c.env.FreshVar()
		}
		params[i] = pt
		c.env.Define(p.Name, pt)
	}
	var ret, errT types.Type
	if n.ReturnType != nil {
		ret = c.resolveType(n.ReturnType)
	} else {
		ret = c.env.FreshVar()
	}
	if n.ErrorType != nil {
		errT = c.resolveType(n.ErrorType)
	}

	savedRet, savedErr, savedHave := c.currentFuncRet, c.currentFuncErr, c.haveFuncCtx
	c.currentFuncRet, c.currentFuncErr, c.haveFuncCtx = ret, errT, true
	bodyT := c.inferBlock(n.Body)
	c.currentFuncRet, c.currentFuncErr, c.haveFuncCtx = savedRet, savedErr, savedHave

	c.unify(ret, bodyT, n.Body.Span(), "function body")
	if errT != nil {
		return types.Function{Params: params, Ret: ret, Err: errT}
	}
	return types.Function{Params: params, Ret: ret}
}
