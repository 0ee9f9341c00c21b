package types

// FuncSig is a top-level function's signature as hoisted before body
// checking (§4.3 step 1).
type FuncSig struct {
	TypeParams []string
	Params     []Type
	Ret        Type
	Err        Type
}

// Env is the type environment: structs/enums by name (with reverse variant
// lookup), top-level function signatures, and a stack of local scopes
// (§3 Type environment).
type Env struct {
	Structs      map[string]*Struct
	Enums        map[string]*Enum
	VariantOwner map[string][]*Enum // variant name -> owning enum(s); >1 means ambiguous shorthand
	Functions    map[string]*FuncSig
	Consts       map[string]Type

	scopes  []map[string]Type
	nextID  int
	nextVar int
}

func NewEnv() *Env {
	return &Env{
		Structs:      map[string]*Struct{},
		Enums:        map[string]*Enum{},
		VariantOwner: map[string][]*Enum{},
		Functions:    map[string]*FuncSig{},
		Consts:       map[string]Type{},
	}
}

func (e *Env) NextTypeID() int {
	e.nextID++
	return e.nextID
}

// FreshVar returns a new, globally-unique type variable for inference.
func (e *Env) FreshVar() Var {
	e.nextVar++
	return Var{Name: freshVarName(e.nextVar)}
}

func freshVarName(n int) string {
	// t1, t2, ... — distinct from user-written lower-case generic names by
	// a leading 't' the surface language never assigns in a type position.
	digits := "0123456789"
	if n == 0 {
		return "t0"
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return "t" + string(buf)
}

func (e *Env) PushScope() { e.scopes = append(e.scopes, map[string]Type{}) }

func (e *Env) PopScope() {
	if len(e.scopes) > 0 {
		e.scopes = e.scopes[:len(e.scopes)-1]
	}
}

func (e *Env) Define(name string, t Type) {
	if len(e.scopes) == 0 {
		e.PushScope()
	}
	e.scopes[len(e.scopes)-1][name] = t
}

// Lookup walks scopes inward-out, then consts, then treats a bare function
// name as a reference to its Function type.
func (e *Env) Lookup(name string) (Type, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if t, ok := e.scopes[i][name]; ok {
			return t, true
		}
	}
	if t, ok := e.Consts[name]; ok {
		return t, true
	}
	if sig, ok := e.Functions[name]; ok {
		return Function{Params: sig.Params, Ret: sig.Ret, Err: sig.Err}, true
	}
	return nil, false
}

// ResolveVariant returns the unique enum owning variantName, or nil if zero
// or more than one enum declares it (ambiguous shorthand, §4.3).
func (e *Env) ResolveVariant(variantName string) *Enum {
	owners := e.VariantOwner[variantName]
	if len(owners) == 1 {
		return owners[0]
	}
	return nil
}

func (e *Env) RegisterStruct(s *Struct) { e.Structs[s.Name] = s }

func (e *Env) RegisterEnum(en *Enum) {
	e.Enums[en.Name] = en
	for _, v := range en.VariantOrder {
		e.VariantOwner[v] = append(e.VariantOwner[v], en)
	}
}
