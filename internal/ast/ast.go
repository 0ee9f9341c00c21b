// Package ast defines the syntactic AST produced by the parser: a closed sum
// type of expressions plus a distinct statement sum for declarations (§3).
package ast

import "github.com/alii/al/internal/diag"

// Node is implemented by every AST node.
type Node interface {
	Span() diag.Span
}

// Expr is the closed sum of expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the closed sum of statement/declaration nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Pattern is the closed sum of match-arm / destructuring patterns.
type Pattern interface {
	Node
	patternNode()
}

// Base embeds a span into every concrete node so Span() needs no repeating.
type Base struct{ Sp diag.Span }

func (b Base) Span() diag.Span { return b.Sp }

// NewBase constructs a Base from a span, for use in composite literals from
// other packages (the parser and checker).
func NewBase(sp diag.Span) Base { return Base{Sp: sp} }
