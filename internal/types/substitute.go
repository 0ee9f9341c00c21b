package types

// Subst maps type-variable names to their resolved types.
type Subst map[string]Type

// Substitute applies subs structurally for Array/Option/Function/Result/
// Tuple, by id for Struct/Enum (substituting their TypeArgs), and by name
// for Var (§4.3).
func Substitute(t Type, subs Subst) Type {
	if t == nil {
		return nil
	}
	switch x := t.(type) {
	case Var:
		if r, ok := subs[x.Name]; ok && !Equal(r, x) {
			return Substitute(r, subs)
		}
		return x
	case Array:
		return Array{Elem: Substitute(x.Elem, subs)}
	case Option:
		return Option{Inner: Substitute(x.Inner, subs)}
	case Function:
		params := make([]Type, len(x.Params))
		for i, p := range x.Params {
			params[i] = Substitute(p, subs)
		}
		var errT Type
		if x.Err != nil {
			errT = Substitute(x.Err, subs)
		}
		return Function{Params: params, Ret: Substitute(x.Ret, subs), Err: errT}
	case Result:
		return Result{Success: Substitute(x.Success, subs), Error: Substitute(x.Error, subs)}
	case Tuple:
		elems := make([]Type, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = Substitute(e, subs)
		}
		return Tuple{Elems: elems}
	case *Struct:
		if len(x.TypeArgs) == 0 {
			return x
		}
		args := make([]Type, len(x.TypeArgs))
		for i, a := range x.TypeArgs {
			args[i] = Substitute(a, subs)
		}
		cp := *x
		cp.TypeArgs = args
		return &cp
	case *Enum:
		if len(x.TypeArgs) == 0 {
			return x
		}
		args := make([]Type, len(x.TypeArgs))
		for i, a := range x.TypeArgs {
			args[i] = Substitute(a, subs)
		}
		cp := *x
		cp.TypeArgs = args
		return &cp
	default:
		return t
	}
}

// Unify attempts to make a and b structurally equal by extending subs with
// variable bindings. It returns false on a structural mismatch; the caller
// (the checker) is responsible for reporting a diagnostic anchored at the
// narrower side's span (§4.3).
func Unify(a, b Type, subs Subst) bool {
	a = Substitute(a, subs)
	b = Substitute(b, subs)

	if av, ok := a.(Var); ok {
		subs[av.Name] = b
		return true
	}
	if bv, ok := b.(Var); ok {
		subs[bv.Name] = a
		return true
	}
	// None unifies with any Option (propagates into the inner type being
	// left unconstrained) and with itself.
	if _, ok := a.(None); ok {
		if _, ok2 := b.(Option); ok2 {
			return true
		}
	}
	if _, ok := b.(None); ok {
		if _, ok2 := a.(Option); ok2 {
			return true
		}
	}

	switch x := a.(type) {
	case Primitive:
		y, ok := b.(Primitive)
		return ok && x.Kind == y.Kind
	case Array:
		y, ok := b.(Array)
		return ok && Unify(x.Elem, y.Elem, subs)
	case Option:
		y, ok := b.(Option)
		return ok && Unify(x.Inner, y.Inner, subs)
	case Function:
		y, ok := b.(Function)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !Unify(x.Params[i], y.Params[i], subs) {
				return false
			}
		}
		if !Unify(x.Ret, y.Ret, subs) {
			return false
		}
		if x.Err == nil || y.Err == nil {
			return x.Err == nil && y.Err == nil
		}
		return Unify(x.Err, y.Err, subs)
	case Result:
		y, ok := b.(Result)
		return ok && Unify(x.Success, y.Success, subs) && Unify(x.Error, y.Error, subs)
	case Tuple:
		y, ok := b.(Tuple)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Unify(x.Elems[i], y.Elems[i], subs) {
				return false
			}
		}
		return true
	case *Struct:
		y, ok := b.(*Struct)
		if !ok || x.ID != y.ID {
			return false
		}
		for i := range x.TypeArgs {
			if i < len(y.TypeArgs) && !Unify(x.TypeArgs[i], y.TypeArgs[i], subs) {
				return false
			}
		}
		return true
	case *Enum:
		y, ok := b.(*Enum)
		if !ok || x.ID != y.ID {
			return false
		}
		for i := range x.TypeArgs {
			if i < len(y.TypeArgs) && !Unify(x.TypeArgs[i], y.TypeArgs[i], subs) {
				return false
			}
		}
		return true
	case None:
		_, ok := b.(None)
		return ok
	case Socket:
		_, ok := b.(Socket)
		return ok
	}
	return false
}
