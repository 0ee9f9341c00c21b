package checker

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/types"
)

// resolveType converts a syntactic TypeIdent into a types.Type. A lower-case
// bare name that isn't a declared struct/enum is a type variable (§4.3).
func (c *Checker) resolveType(ti *ast.TypeIdent) types.Type {
	if ti == nil {
		return c.env.FreshVar()
	}
	switch {
	case ti.IsOption:
		return types.Option{Inner: c.resolveType(ti.Elem)}
	case ti.IsArray:
		return types.Array{Elem: c.resolveType(ti.Elem)}
	case ti.IsFunction:
		params := make([]types.Type, len(ti.Params))
		for i, p := range ti.Params {
			params[i] = c.resolveType(p)
		}
		var errT types.Type
		if ti.Error != nil {
			errT = c.resolveType(ti.Error)
		}
		return types.Function{Params: params, Ret: c.resolveType(ti.Return), Err: errT}
	}

	switch ti.Name {
	case "Int":
		return types.Int
	case "Float":
		return types.Float
	case "String":
		return types.String
	case "Bool":
		return types.Bool
	}

	if s, ok := c.env.Structs[ti.Name]; ok {
		return c.instantiate(s, ti.TypeArgs)
	}
	if en, ok := c.env.Enums[ti.Name]; ok {
		return c.instantiateEnum(en, ti.TypeArgs)
	}

	if isLowerName(ti.Name) {
		return types.Var{Name: ti.Name}
	}

	c.errorf(ti.Span(), "undefined type %q", ti.Name)
	return c.env.FreshVar()
}

func isLowerName(s string) bool {
	return s != "" && !(s[0] >= 'A' && s[0] <= 'Z')
}

func (c *Checker) instantiate(s *types.Struct, argIdents []*ast.TypeIdent) types.Type {
	if len(argIdents) == 0 {
		return s
	}
	args := make([]types.Type, len(argIdents))
	for i, a := range argIdents {
		args[i] = c.resolveType(a)
	}
	cp := *s
	cp.TypeArgs = args
	return &cp
}

func (c *Checker) instantiateEnum(en *types.Enum, argIdents []*ast.TypeIdent) types.Type {
	if len(argIdents) == 0 {
		return en
	}
	args := make([]types.Type, len(argIdents))
	for i, a := range argIdents {
		args[i] = c.resolveType(a)
	}
	cp := *en
	cp.TypeArgs = args
	return &cp
}
