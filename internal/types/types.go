// Package types implements AL's type model: nominal primitive/array/option/
// function/result/tuple/struct/enum types, type variables, and substitution
// (§3, §4.3).
package types

import (
	"fmt"
	"strings"
)

// Type is the closed sum of AL types.
type Type interface {
	typeNode()
	String() string
}

type PrimKind int

const (
	IntKind PrimKind = iota
	FloatKind
	StringKind
	BoolKind
)

func (k PrimKind) String() string {
	switch k {
	case IntKind:
		return "Int"
	case FloatKind:
		return "Float"
	case StringKind:
		return "String"
	case BoolKind:
		return "Bool"
	}
	return "?"
}

type Primitive struct{ Kind PrimKind }

func (Primitive) typeNode()       {}
func (p Primitive) String() string { return p.Kind.String() }

var Int = Primitive{IntKind}
var Float = Primitive{FloatKind}
var String = Primitive{StringKind}
var Bool = Primitive{BoolKind}

type Array struct{ Elem Type }

func (Array) typeNode()        {}
func (a Array) String() string { return "[" + a.Elem.String() + "]" }

type Option struct{ Inner Type }

func (Option) typeNode()        {}
func (o Option) String() string { return "?" + o.Inner.String() }

// Function is a function type; Err is nil when the function cannot fail.
type Function struct {
	Params []Type
	Ret    Type
	Err    Type
}

func (Function) typeNode() {}
func (f Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	ret := "?"
	if f.Ret != nil {
		ret = f.Ret.String()
	}
	if f.Err != nil {
		ret += "!" + f.Err.String()
	}
	return fmt.Sprintf("fn(%s) %s", strings.Join(parts, ", "), ret)
}

// Result is T!E, the success/error union produced by fallible functions.
type Result struct {
	Success Type
	Error   Type
}

func (Result) typeNode()        {}
func (r Result) String() string { return r.Success.String() + "!" + r.Error.String() }

type Tuple struct{ Elems []Type }

func (Tuple) typeNode() {}
func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Struct identity is by stable integer ID assigned at declaration; TypeArgs
// is empty when not yet instantiated (§3).
type Struct struct {
	ID         int
	Name       string
	TypeParams []string
	TypeArgs   []Type
	FieldOrder []string
	Fields     map[string]Type
}

func (*Struct) typeNode() {}
func (s *Struct) String() string {
	if len(s.TypeArgs) == 0 {
		return s.Name
	}
	parts := make([]string, len(s.TypeArgs))
	for i, a := range s.TypeArgs {
		parts[i] = a.String()
	}
	return s.Name + "(" + strings.Join(parts, ", ") + ")"
}

type Enum struct {
	ID           int
	Name         string
	TypeParams   []string
	TypeArgs     []Type
	VariantOrder []string
	Variants     map[string][]Type
}

func (*Enum) typeNode() {}
func (e *Enum) String() string {
	if len(e.TypeArgs) == 0 {
		return e.Name
	}
	parts := make([]string, len(e.TypeArgs))
	for i, a := range e.TypeArgs {
		parts[i] = a.String()
	}
	return e.Name + "(" + strings.Join(parts, ", ") + ")"
}

// None is the type of the bare `none` literal prior to unification with an
// Option's inner type.
type None struct{}

func (None) typeNode()        {}
func (None) String() string   { return "None" }

// Socket is the opaque handle type returned by tcp_listen/tcp_accept,
// gated behind --experimental-shitty-io like the opcodes that produce it.
type Socket struct{}

func (Socket) typeNode()        {}
func (Socket) String() string   { return "Socket" }

// Var is an unbound type variable, used during inference and for generic
// parameters.
type Var struct{ Name string }

func (Var) typeNode()        {}
func (v Var) String() string { return v.Name }

// Equal reports structural/nominal equality after substitution has already
// been applied by the caller.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case Primitive:
		y, ok := b.(Primitive)
		return ok && x.Kind == y.Kind
	case Array:
		y, ok := b.(Array)
		return ok && Equal(x.Elem, y.Elem)
	case Option:
		y, ok := b.(Option)
		return ok && Equal(x.Inner, y.Inner)
	case Function:
		y, ok := b.(Function)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !Equal(x.Params[i], y.Params[i]) {
				return false
			}
		}
		if !Equal(x.Ret, y.Ret) {
			return false
		}
		return errEqual(x.Err, y.Err)
	case Result:
		y, ok := b.(Result)
		return ok && Equal(x.Success, y.Success) && Equal(x.Error, y.Error)
	case Tuple:
		y, ok := b.(Tuple)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *Struct:
		y, ok := b.(*Struct)
		return ok && x.ID == y.ID && typeArgsEqual(x.TypeArgs, y.TypeArgs)
	case *Enum:
		y, ok := b.(*Enum)
		return ok && x.ID == y.ID && typeArgsEqual(x.TypeArgs, y.TypeArgs)
	case None:
		_, ok := b.(None)
		return ok
	case Socket:
		_, ok := b.(Socket)
		return ok
	case Var:
		y, ok := b.(Var)
		return ok && x.Name == y.Name
	}
	return false
}

func errEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Equal(a, b)
}

func typeArgsEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// IsFailure reports whether t is an Option or Result, the two "failure
// value" shapes handled uniformly by `or` and `!` (§1, GLOSSARY).
func IsFailure(t Type) bool {
	switch t.(type) {
	case Option, Result:
		return true
	}
	return false
}
