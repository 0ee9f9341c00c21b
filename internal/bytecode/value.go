package bytecode

import (
	"fmt"
	"strings"
)

// Value is the closed sum of AL runtime values the VM operates on (§4.4,
// §4.6). Modeled as an interface with marker methods, the same shape funxy's
// evaluator.Object uses for its tagged runtime values.
type Value interface {
	valueNode()
	Inspect() string
}

type Int int64

func (Int) valueNode()          {}
func (v Int) Inspect() string   { return fmt.Sprintf("%d", int64(v)) }

type Float float64

func (Float) valueNode()        {}
func (v Float) Inspect() string { return fmt.Sprintf("%g", float64(v)) }

type Bool bool

func (Bool) valueNode()        {}
func (v Bool) Inspect() string { return fmt.Sprintf("%t", bool(v)) }

type String string

func (String) valueNode()        {}
func (v String) Inspect() string { return string(v) }

// StructTag and EnumTag are constant-pool-only marker values: the compiler
// push_consts one immediately before a make_struct/make_enum[_payload]
// instruction, carrying the static field/variant metadata the instruction
// needs (field names for Inspect, or the enum+variant name pair) without a
// dedicated operand encoding for each. They never escape onto the value
// stack as a user-visible result.
type StructTag struct {
	Name   string
	Fields []string
}

func (StructTag) valueNode()        {}
func (t StructTag) Inspect() string { return t.Name }

type EnumTag struct {
	EnumName string
	Variant  string
}

func (EnumTag) valueNode()        {}
func (t EnumTag) Inspect() string { return t.EnumName + "." + t.Variant }

// None is both the unit value and the failure case of an Option (§4.6).
type None struct{}

func (None) valueNode()        {}
func (None) Inspect() string   { return "none" }

type Array struct {
	Elems []Value
}

func (*Array) valueNode() {}
func (a *Array) Inspect() string {
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		parts[i] = e.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type Tuple struct {
	Elems []Value
}

func (*Tuple) valueNode() {}
func (t *Tuple) Inspect() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.Inspect()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Struct is a reference-semantics struct instance (§4.6 equality).
type Struct struct {
	TypeName string
	Fields   []string
	Values   []Value
}

func (*Struct) valueNode() {}
func (s *Struct) Inspect() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f + ": " + s.Values[i].Inspect()
	}
	return s.TypeName + "{" + strings.Join(parts, ", ") + "}"
}

func (s *Struct) Field(name string) (Value, bool) {
	for i, f := range s.Fields {
		if f == name {
			return s.Values[i], true
		}
	}
	return nil, false
}

// Enum is a tagged-union instance: an enum name, the selected variant, and
// its (possibly empty) payload. Equality is structural (§4.6), unlike
// Struct and Closure which are reference-equal.
type Enum struct {
	EnumName string
	Variant  string
	Payload  []Value
}

func (*Enum) valueNode() {}
func (e *Enum) Inspect() string {
	if len(e.Payload) == 0 {
		return e.EnumName + "." + e.Variant
	}
	parts := make([]string, len(e.Payload))
	for i, p := range e.Payload {
		parts[i] = p.Inspect()
	}
	return e.EnumName + "." + e.Variant + "(" + strings.Join(parts, ", ") + ")"
}

// Closure is a function value: an index into the program's function table
// plus the values captured from enclosing scopes, in declaration order.
type Closure struct {
	FuncIndex int
	Captures  []Value
}

func (*Closure) valueNode()      {}
func (c *Closure) Inspect() string { return "<function>" }

// Error is the failure case of a T!E result (§4.6, GLOSSARY "failure
// value"). Payload is whatever value the error expression constructed.
type Error struct {
	Payload Value
}

func (*Error) valueNode() {}
func (e *Error) Inspect() string {
	return "error(" + e.Payload.Inspect() + ")"
}

// Socket is a VM-owned handle into the listener/connection tables, gated by
// --experimental-shitty-io (§4.6, §6).
type Socket struct {
	ID   int
	Kind string // "listener" or "conn"
}

func (*Socket) valueNode()        {}
func (s *Socket) Inspect() string { return fmt.Sprintf("<socket %s#%d>", s.Kind, s.ID) }

// IsTruthy implements AL's truthiness rule (§4.6): false, none, 0, and the
// empty string are false; everything else is true.
func IsTruthy(v Value) bool {
	switch x := v.(type) {
	case Bool:
		return bool(x)
	case None:
		return false
	case Int:
		return x != 0
	case Float:
		return x != 0
	case String:
		return x != ""
	default:
		return true
	}
}

// Equal implements AL's value equality (§4.6): structural for primitives,
// none, enums (by name/variant/payload); reference semantics for structs
// and closures.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case Float:
		y, ok := b.(Float)
		return ok && x == y
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case None:
		_, ok := b.(None)
		return ok
	case *Array:
		y, ok := b.(*Array)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *Tuple:
		y, ok := b.(*Tuple)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *Enum:
		y, ok := b.(*Enum)
		if !ok || x.EnumName != y.EnumName || x.Variant != y.Variant || len(x.Payload) != len(y.Payload) {
			return false
		}
		for i := range x.Payload {
			if !Equal(x.Payload[i], y.Payload[i]) {
				return false
			}
		}
		return true
	case *Error:
		y, ok := b.(*Error)
		return ok && Equal(x.Payload, y.Payload)
	case *Struct:
		y, ok := b.(*Struct)
		return ok && x == y
	case *Closure:
		y, ok := b.(*Closure)
		return ok && x == y
	case *Socket:
		y, ok := b.(*Socket)
		return ok && x == y
	}
	return false
}

// IsFailure reports whether v is a failure value: an Error, or None standing
// in for an absent Option (§4.6, GLOSSARY).
func IsFailure(v Value) bool {
	switch v.(type) {
	case *Error, None:
		return true
	default:
		return false
	}
}
