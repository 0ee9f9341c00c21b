package checker

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/types"
)

func (c *Checker) inferMatch(n *ast.Match) types.Type {
	subjT := c.inferExpr(n.Subject)

	matched := map[string]bool{}
	hasWildcard := false
	var resultT types.Type

	for _, arm := range n.Arms {
		c.env.PushScope()
		c.checkPattern(arm.Pattern, subjT, matched, &hasWildcard)
		bodyT := c.inferExpr(arm.Body)
		c.env.PopScope()
		if resultT == nil {
			resultT = bodyT
		} else {
			c.unify(resultT, bodyT, arm.Body.Span(), "match arms")
		}
	}

	if en, ok := types.Substitute(subjT, c.subs).(*types.Enum); ok && !hasWildcard {
		if full := c.env.Enums[en.Name]; full != nil {
			for _, v := range full.VariantOrder {
				if !matched[v] {
					c.errorf(n.Span(), "non-exhaustive match: missing variant %s.%s", en.Name, v)
				}
			}
		}
	}

	if resultT == nil {
		return types.None{}
	}
	return resultT
}

// checkPattern validates pat against subjT, binds any identifiers it
// introduces into the current scope, and records which enum variants (if
// any) were matched for exhaustiveness checking.
func (c *Checker) checkPattern(pat ast.Pattern, subjT types.Type, matched map[string]bool, hasWildcard *bool) {
	subjT = types.Substitute(subjT, c.subs)
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		*hasWildcard = true
	case *ast.IdentPattern:
		*hasWildcard = true
		c.env.Define(p.Name, subjT)
	case *ast.LiteralPattern:
		lt := c.inferExpr(p.Value)
		c.unify(subjT, lt, p.Span(), "literal pattern")
	case *ast.RangePattern:
		c.unify(types.Int, c.inferExpr(p.Start), p.Start.Span(), "range pattern start")
		c.unify(types.Int, c.inferExpr(p.End), p.End.Span(), "range pattern end")
		c.unify(types.Int, subjT, p.Span(), "range pattern subject")
	case *ast.TuplePattern:
		tup, ok := subjT.(types.Tuple)
		for i, el := range p.Elements {
			if ok && i < len(tup.Elems) {
				c.checkPattern(el, tup.Elems[i], matched, hasWildcard)
			} else {
				c.checkPattern(el, c.env.FreshVar(), matched, hasWildcard)
			}
		}
	case *ast.ArrayPattern:
		arr, ok := subjT.(types.Array)
		elemT := types.Type(c.env.FreshVar())
		if ok {
			elemT = arr.Elem
		}
		for _, el := range p.Elements {
			c.checkPattern(el, elemT, matched, hasWildcard)
		}
		if p.HasSpread {
			c.env.Define(p.SpreadName, types.Array{Elem: elemT})
		}
	case *ast.OrPattern:
		for _, alt := range p.Alternatives {
			if id, ok := alt.(*ast.IdentPattern); ok {
				c.errorf(id.Span(), "or-pattern alternatives cannot bind names (found %q)", id.Name)
			}
			c.checkPattern(alt, subjT, matched, hasWildcard)
		}
	case *ast.EnumVariantPattern:
		c.checkEnumPattern(p, subjT, matched, hasWildcard)
	}
}

func (c *Checker) checkEnumPattern(p *ast.EnumVariantPattern, subjT types.Type, matched map[string]bool, hasWildcard *bool) {
	var en *types.Enum
	if p.HasEnumName {
		en = c.env.Enums[p.EnumName]
	} else if full, ok := subjT.(*types.Enum); ok {
		en = c.env.Enums[full.Name]
	} else {
		en = c.env.ResolveVariant(p.Variant)
	}
	if en == nil {
		c.errorf(p.Span(), "cannot resolve enum variant %q", p.Variant)
		for _, sp := range p.SubPatterns {
			c.checkPattern(sp, c.env.FreshVar(), matched, hasWildcard)
		}
		return
	}
	payload, ok := en.Variants[p.Variant]
	if !ok {
		c.errorf(p.Span(), "enum %s has no variant %q", en.Name, p.Variant)
		return
	}
	matched[p.Variant] = true
	if len(p.SubPatterns) != len(payload) && (p.HasPayload || len(p.SubPatterns) > 0) {
		c.errorf(p.Span(), "variant %s.%s expects %d payload value(s), found %d", en.Name, p.Variant, len(payload), len(p.SubPatterns))
	}
	for i, sp := range p.SubPatterns {
		if i < len(payload) {
			c.checkPattern(sp, payload[i], matched, hasWildcard)
		}
	}
}
