package checker

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/types"
)

func (c *Checker) inferCall(n *ast.CallExpr) types.Type {
	// EnumName.Variant(args...): explicit qualified enum construction.
	if pa, ok := n.Callee.(*ast.PropertyAccess); ok {
		if id, ok := pa.Target.(*ast.Ident); ok {
			if en, ok := c.env.Enums[id.Name]; ok {
				if _, isVariant := en.Variants[pa.Name]; isVariant {
					c.record(pa, en)
					return c.inferEnumConstruct(en, pa.Name, n)
				}
			}
		}
	}

	// Bare identifier: either a top-level function (generic instantiation
	// per call-site) or an enum-variant shorthand constructor (§4.3 Enum
	// shorthand inference), tried in that order since a function named the
	// same as a variant shadows the shorthand.
	if id, ok := n.Callee.(*ast.Ident); ok {
		if sig, ok := c.env.Functions[id.Name]; ok {
			params, ret, errT := c.instantiateSig(sig)
			c.record(id, types.Function{Params: params, Ret: ret, Err: errT})
			return c.applyCall(params, ret, errT, n)
		}
		if _, isLocal := c.env.Lookup(id.Name); !isLocal {
			if en := c.env.ResolveVariant(id.Name); en != nil {
				c.record(id, en)
				return c.inferEnumConstruct(en, id.Name, n)
			}
		}
	}

	calleeT := types.Substitute(c.inferExpr(n.Callee), c.subs)
	fn, ok := calleeT.(types.Function)
	if !ok {
		c.errorf(n.Callee.Span(), "cannot call non-function type %s", calleeT)
		for _, a := range n.Args {
			c.inferExpr(a)
		}
		return c.env.FreshVar()
	}
	return c.applyCall(fn.Params, fn.Ret, fn.Err, n)
}

func (c *Checker) applyCall(params []types.Type, ret, errT types.Type, n *ast.CallExpr) types.Type {
	if len(n.Args) != len(params) {
		c.errorf(n.Span(), "wrong number of arguments: expected %d, found %d", len(params), len(n.Args))
	}
	for i, arg := range n.Args {
		got := c.inferExpr(arg)
		if i < len(params) {
			c.unify(params[i], got, arg.Span(), "call argument")
		}
	}
	if errT != nil {
		return types.Result{Success: ret, Error: errT}
	}
	return ret
}

func (c *Checker) inferEnumConstruct(en *types.Enum, variant string, n *ast.CallExpr) types.Type {
	payload := en.Variants[variant]
	if len(n.Args) != len(payload) {
		c.errorf(n.Span(), "variant %s.%s expects %d payload value(s), found %d", en.Name, variant, len(payload), len(n.Args))
	}
	for i, a := range n.Args {
		got := c.inferExpr(a)
		if i < len(payload) {
			c.unify(payload[i], got, a.Span(), "enum payload")
		}
	}
	return en
}
