package ast

// Param is a function parameter: a name with an optional explicit type
// (omitted types are inferred, §4.3).
type Param struct {
	Name string
	Type *TypeIdent // nil if omitted
}

// ---- Literals ----

type NumberLit struct {
	Base
	IsFloat    bool
	IntValue   int64
	FloatValue float64
	Raw        string
}

func (*NumberLit) exprNode() {}

// InterpPart is one piece of an interpolated string: either literal text or
// an embedded expression (`'$name is $(x+1)'`).
type InterpPart struct {
	Text   string
	Expr   Expr // nil when this part is literal text
	IsExpr bool
}

type StringLit struct {
	Base
	Value string
}

func (*StringLit) exprNode() {}

type InterpStringLit struct {
	Base
	Parts []InterpPart
}

func (*InterpStringLit) exprNode() {}

type BoolLit struct {
	Base
	Value bool
}

func (*BoolLit) exprNode() {}

type NoneLit struct{ Base }

func (*NoneLit) exprNode() {}

type CharLit struct {
	Base
	Value rune
}

func (*CharLit) exprNode() {}

// ---- Identifiers & bindings ----

type Ident struct {
	Base
	Name string
}

func (*Ident) exprNode() {}

// VarBinding is a `let`/`const` statement binding a single name, a
// type-pattern, or a tuple-destructuring pattern (§3).
type VarBinding struct {
	Base
	IsConst bool
	Pattern Pattern // IdentPattern, TuplePattern, or an enum-variant type pattern
	Type    *TypeIdent
	Value   Expr
}

func (*VarBinding) stmtNode() {}

// ---- Control flow expressions ----

type Block struct {
	Base
	Stmts []Stmt
}

func (*Block) exprNode() {}

type If struct {
	Base
	Cond Expr
	Then *Block
	Else Expr // *Block, *If, or nil
}

func (*If) exprNode() {}

type MatchArm struct {
	Pattern Pattern
	Body    Expr
}

type Match struct {
	Base
	Subject Expr
	Arms    []MatchArm
}

func (*Match) exprNode() {}

// OrExpr is `x or fallback` / `x or { ... }` / `x or err -> { ... }` (§4.2).
type OrExpr struct {
	Base
	Left       Expr
	ErrName    string
	HasErrName bool
	Handler    Expr // expression fallback or block
}

func (*OrExpr) exprNode() {}

// PropagateNone is `x!`.
type PropagateNone struct {
	Base
	X Expr
}

func (*PropagateNone) exprNode() {}

// ---- Operators ----

type BinaryExpr struct {
	Base
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

type UnaryExpr struct {
	Base
	Op string
	X  Expr
}

func (*UnaryExpr) exprNode() {}

// ---- Calls, access, aggregates ----

type CallExpr struct {
	Base
	Callee Expr
	Args   []Expr
}

func (*CallExpr) exprNode() {}

type PropertyAccess struct {
	Base
	Target Expr
	Name   string
}

func (*PropertyAccess) exprNode() {}

type ArrayLit struct {
	Base
	Elements []Expr
}

func (*ArrayLit) exprNode() {}

type TupleLit struct {
	Base
	Elements []Expr
}

func (*TupleLit) exprNode() {}

type ArrayIndex struct {
	Base
	Target Expr
	Index  Expr
}

func (*ArrayIndex) exprNode() {}

// RangeExpr is `a..b`, half-open.
type RangeExpr struct {
	Base
	Start Expr
	End   Expr
}

func (*RangeExpr) exprNode() {}

type StructFieldInit struct {
	Name  string
	Value Expr
}

type StructInit struct {
	Base
	TypeName string
	Fields   []StructFieldInit
}

func (*StructInit) exprNode() {}

// FunctionExpr is an anonymous function literal (no name, unlike
// FunctionDeclaration).
type FunctionExpr struct {
	Base
	TypeParams []string
	Params     []Param
	ReturnType *TypeIdent
	ErrorType  *TypeIdent
	Body       *Block
}

func (*FunctionExpr) exprNode() {}

type Spread struct {
	Base
	X Expr
}

func (*Spread) exprNode() {}

// ErrorExpr constructs a failure value: `error 'message'`.
type ErrorExpr struct {
	Base
	Payload Expr
}

func (*ErrorExpr) exprNode() {}

type AssertExpr struct {
	Base
	Cond Expr
}

func (*AssertExpr) exprNode() {}

// ErrorNode is a parser recovery sentinel standing in for a construct that
// failed to parse (§4.2). It is skipped by the checker but still traversed
// so additional errors can surface.
type ErrorNode struct{ Base }

func (*ErrorNode) exprNode() {}
func (*ErrorNode) stmtNode() {}
