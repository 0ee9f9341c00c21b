package checker

import "github.com/alii/al/internal/types"

// freeVars collects the distinct type-variable names appearing in t.
func freeVars(t types.Type, seen map[string]bool) {
	switch x := t.(type) {
	case types.Var:
		seen[x.Name] = true
	case types.Array:
		freeVars(x.Elem, seen)
	case types.Option:
		freeVars(x.Inner, seen)
	case types.Function:
		for _, p := range x.Params {
			freeVars(p, seen)
		}
		if x.Ret != nil {
			freeVars(x.Ret, seen)
		}
		if x.Err != nil {
			freeVars(x.Err, seen)
		}
	case types.Result:
		freeVars(x.Success, seen)
		freeVars(x.Error, seen)
	case types.Tuple:
		for _, e := range x.Elems {
			freeVars(e, seen)
		}
	case *types.Struct:
		for _, a := range x.TypeArgs {
			freeVars(a, seen)
		}
	case *types.Enum:
		for _, a := range x.TypeArgs {
			freeVars(a, seen)
		}
	}
}

// instantiateSig produces a fresh copy of sig with every type variable
// replaced by a globally-fresh variable, so each call site of a generic
// function unifies independently (§4.3 Generics).
func (c *Checker) instantiateSig(sig *types.FuncSig) (params []types.Type, ret types.Type, errT types.Type) {
	seen := map[string]bool{}
	for _, p := range sig.Params {
		freeVars(p, seen)
	}
	if sig.Ret != nil {
		freeVars(sig.Ret, seen)
	}
	if sig.Err != nil {
		freeVars(sig.Err, seen)
	}

	subs := types.Subst{}
	for name := range seen {
		subs[name] = c.env.FreshVar()
	}

	params = make([]types.Type, len(sig.Params))
	for i, p := range sig.Params {
		params[i] = types.Substitute(p, subs)
	}
	if sig.Ret != nil {
		ret = types.Substitute(sig.Ret, subs)
	}
	if sig.Err != nil {
		errT = types.Substitute(sig.Err, subs)
	}
	return params, ret, errT
}
