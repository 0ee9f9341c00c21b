package ast

import "github.com/alii/al/internal/diag"

// TypeIdent is the syntactic spelling of a type annotation: a name plus the
// array/option/function flags and their sub-types (§3).
type TypeIdent struct {
	Base
	Name       string
	IsArray    bool
	IsOption   bool
	IsFunction bool
	Elem       *TypeIdent   // element type when IsArray or IsOption
	Params     []*TypeIdent // parameter types when IsFunction
	Return     *TypeIdent   // return type when IsFunction
	Error      *TypeIdent   // error type for T!E function returns, nil if none
	TypeArgs   []*TypeIdent // generic instantiation args, e.g. Box(Int)
}

func NewTypeIdent(sp diag.Span, name string) *TypeIdent {
	return &TypeIdent{Base: Base{sp}, Name: name}
}
