// Package fmtprinter renders a parsed AST back to source text (§6 `fmt`),
// grounded on funxy's internal/prettyprinter/code_printer.go: a
// precedence-aware expression printer with a 4-space indent and
// parenthesization driven by an operator precedence table, adapted to AL's
// (non-visitor) closed-sum AST.
package fmtprinter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/alii/al/internal/ast"
)

// precedence mirrors the parser's own climbing order (§4.2): || lowest,
// then &&, then comparisons, then + -, then * / %.
var precedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

type Printer struct {
	buf    bytes.Buffer
	indent int
}

func New() *Printer { return &Printer{} }

// stringEscaper re-escapes a string literal's decoded value for printing
// inside single quotes, so the output lexes back to the same value.
var stringEscaper = strings.NewReplacer("\\", `\\`, "'", `\'`, "$", `\$`, "\n", `\n`, "\t", `\t`, "\r", `\r`, "\x00", `\0`)

// Format renders a file's top-level statements, one per line, with a blank
// line between consecutive top-level statements.
func Format(file *ast.File) string {
	p := New()
	for i, stmt := range file.Stmts {
		if i > 0 {
			p.buf.WriteString("\n")
		}
		p.writeIndent()
		p.stmt(stmt)
		p.buf.WriteString("\n")
	}
	return p.buf.String()
}

func (p *Printer) writeIndent() {
	p.buf.WriteString(strings.Repeat("    ", p.indent))
}

func (p *Printer) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		p.expr(n.X, 0, false)

	case *ast.VarBinding:
		if n.IsConst {
			p.buf.WriteString("const ")
		} else {
			p.buf.WriteString("let ")
		}
		p.pattern(n.Pattern)
		if n.Type != nil {
			p.buf.WriteString(" ")
			p.typeIdent(n.Type)
		}
		p.buf.WriteString(" = ")
		p.expr(n.Value, 0, false)

	case *ast.FunctionDeclaration:
		p.buf.WriteString("fn ")
		p.buf.WriteString(n.Name)
		p.typeParams(n.TypeParams)
		p.params(n.Params)
		p.returnSig(n.ReturnType, n.ErrorType)
		p.buf.WriteString(" ")
		p.block(n.Body)

	case *ast.StructDeclaration:
		p.buf.WriteString("struct ")
		p.buf.WriteString(n.Name)
		p.typeParams(n.TypeParams)
		p.buf.WriteString(" { ")
		for i, f := range n.Fields {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.buf.WriteString(f.Name)
			p.buf.WriteString(" ")
			p.typeIdent(f.Type)
		}
		p.buf.WriteString(" }")

	case *ast.EnumDeclaration:
		p.buf.WriteString("enum ")
		p.buf.WriteString(n.Name)
		p.typeParams(n.TypeParams)
		p.buf.WriteString(" {\n")
		p.indent++
		for _, v := range n.Variants {
			p.writeIndent()
			p.buf.WriteString(v.Name)
			if len(v.Payload) > 0 {
				p.buf.WriteString("(")
				for i, t := range v.Payload {
					if i > 0 {
						p.buf.WriteString(", ")
					}
					p.typeIdent(t)
				}
				p.buf.WriteString(")")
			}
			p.buf.WriteString("\n")
		}
		p.indent--
		p.writeIndent()
		p.buf.WriteString("}")

	case *ast.ReturnStmt:
		p.buf.WriteString("return")
		if n.Value != nil {
			p.buf.WriteString(" ")
			p.expr(n.Value, 0, false)
		}

	case *ast.ImportStmt:
		p.buf.WriteString("import '" + stringEscaper.Replace(n.Path) + "'")
		if n.HasAlias {
			p.buf.WriteString(" as " + n.Alias)
		}

	case *ast.ExportStmt:
		p.buf.WriteString("export ")
		p.stmt(n.Decl)

	case *ast.ErrorNode:
		p.buf.WriteString("<error>")

	default:
		p.buf.WriteString(fmt.Sprintf("/* unknown stmt %T */", n))
	}
}

func (p *Printer) typeParams(names []string) {
	if len(names) == 0 {
		return
	}
	p.buf.WriteString("(")
	p.buf.WriteString(strings.Join(names, ", "))
	p.buf.WriteString(")")
}

func (p *Printer) params(params []ast.Param) {
	p.buf.WriteString("(")
	for i, prm := range params {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		p.buf.WriteString(prm.Name)
		if prm.Type != nil {
			p.buf.WriteString(" ")
			p.typeIdent(prm.Type)
		}
	}
	p.buf.WriteString(")")
}

func (p *Printer) returnSig(ret, errT *ast.TypeIdent) {
	if ret == nil {
		return
	}
	p.buf.WriteString(" ")
	p.typeIdent(ret)
	if errT != nil {
		p.buf.WriteString("!")
		p.typeIdent(errT)
	}
}

func (p *Printer) typeIdent(t *ast.TypeIdent) {
	if t == nil {
		p.buf.WriteString("_")
		return
	}
	switch {
	case t.IsArray:
		p.buf.WriteString("[")
		p.typeIdent(t.Elem)
		p.buf.WriteString("]")
	case t.IsOption:
		p.buf.WriteString("?")
		p.typeIdent(t.Elem)
	case t.IsFunction:
		p.buf.WriteString("fn(")
		for i, prm := range t.Params {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.typeIdent(prm)
		}
		p.buf.WriteString(")")
		if t.Return != nil {
			p.buf.WriteString(" ")
			p.typeIdent(t.Return)
			if t.Error != nil {
				p.buf.WriteString("!")
				p.typeIdent(t.Error)
			}
		}
	default:
		p.buf.WriteString(t.Name)
		if len(t.TypeArgs) > 0 {
			p.buf.WriteString("(")
			for i, a := range t.TypeArgs {
				if i > 0 {
					p.buf.WriteString(", ")
				}
				p.typeIdent(a)
			}
			p.buf.WriteString(")")
		}
	}
}

func (p *Printer) block(b *ast.Block) {
	if len(b.Stmts) == 0 {
		p.buf.WriteString("{}")
		return
	}
	p.buf.WriteString("{\n")
	p.indent++
	for _, s := range b.Stmts {
		p.writeIndent()
		p.stmt(s)
		p.buf.WriteString("\n")
	}
	p.indent--
	p.writeIndent()
	p.buf.WriteString("}")
}

// expr prints e, parenthesizing only when its own operator binds looser
// than the enclosing context requires (parentPrec), matching the teacher's
// printExpr precedence/associativity logic.
func (p *Printer) expr(e ast.Expr, parentPrec int, isRight bool) {
	if e == nil {
		p.buf.WriteString("<nil>")
		return
	}
	switch n := e.(type) {
	case *ast.BinaryExpr:
		prec := precedence[n.Op]
		needParens := prec < parentPrec
		if needParens {
			p.buf.WriteString("(")
		}
		p.expr(n.Left, prec, false)
		p.buf.WriteString(" " + n.Op + " ")
		p.expr(n.Right, prec+1, true)
		if needParens {
			p.buf.WriteString(")")
		}

	case *ast.UnaryExpr:
		p.buf.WriteString(n.Op)
		p.expr(n.X, 100, false)

	case *ast.NumberLit:
		p.buf.WriteString(n.Raw)

	case *ast.StringLit:
		p.buf.WriteString("'" + stringEscaper.Replace(n.Value) + "'")

	case *ast.InterpStringLit:
		p.buf.WriteString("'")
		for _, part := range n.Parts {
			if part.IsExpr {
				p.buf.WriteString("$(")
				p.expr(part.Expr, 0, false)
				p.buf.WriteString(")")
			} else {
				p.buf.WriteString(part.Text)
			}
		}
		p.buf.WriteString("'")

	case *ast.BoolLit:
		p.buf.WriteString(strconv.FormatBool(n.Value))

	case *ast.NoneLit:
		p.buf.WriteString("none")

	case *ast.CharLit:
		p.buf.WriteString("`" + string(n.Value) + "`")

	case *ast.Ident:
		p.buf.WriteString(n.Name)

	case *ast.Block:
		p.block(n)

	case *ast.If:
		p.buf.WriteString("if ")
		p.expr(n.Cond, 0, false)
		p.buf.WriteString(" ")
		p.block(n.Then)
		if n.Else != nil {
			p.buf.WriteString(" else ")
			p.expr(n.Else, 0, false)
		}

	case *ast.Match:
		p.buf.WriteString("match ")
		p.expr(n.Subject, 0, false)
		p.buf.WriteString(" {\n")
		p.indent++
		for _, arm := range n.Arms {
			p.writeIndent()
			p.pattern(arm.Pattern)
			p.buf.WriteString(" -> ")
			p.expr(arm.Body, 0, false)
			p.buf.WriteString(",\n")
		}
		p.indent--
		p.writeIndent()
		p.buf.WriteString("}")

	case *ast.OrExpr:
		p.expr(n.Left, 0, false)
		p.buf.WriteString(" or ")
		if n.HasErrName {
			p.buf.WriteString("err ")
			if n.ErrName != "err" {
				p.buf.WriteString(n.ErrName + " ")
			}
			p.buf.WriteString("-> ")
		}
		p.expr(n.Handler, 0, false)

	case *ast.PropagateNone:
		p.expr(n.X, 100, false)
		p.buf.WriteString("!")

	case *ast.CallExpr:
		p.expr(n.Callee, 100, false)
		p.buf.WriteString("(")
		for i, a := range n.Args {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.expr(a, 0, false)
		}
		p.buf.WriteString(")")

	case *ast.PropertyAccess:
		p.expr(n.Target, 100, false)
		p.buf.WriteString("." + n.Name)

	case *ast.ArrayLit:
		p.buf.WriteString("[")
		for i, el := range n.Elements {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.expr(el, 0, false)
		}
		p.buf.WriteString("]")

	case *ast.TupleLit:
		p.buf.WriteString("(")
		for i, el := range n.Elements {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.expr(el, 0, false)
		}
		p.buf.WriteString(")")

	case *ast.ArrayIndex:
		p.expr(n.Target, 100, false)
		p.buf.WriteString("[")
		p.expr(n.Index, 0, false)
		p.buf.WriteString("]")

	case *ast.RangeExpr:
		p.expr(n.Start, 0, false)
		p.buf.WriteString("..")
		p.expr(n.End, 0, false)

	case *ast.StructInit:
		p.buf.WriteString(n.TypeName + " { ")
		for i, f := range n.Fields {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.buf.WriteString(f.Name + ": ")
			p.expr(f.Value, 0, false)
		}
		p.buf.WriteString(" }")

	case *ast.FunctionExpr:
		p.buf.WriteString("fn")
		p.typeParams(n.TypeParams)
		p.params(n.Params)
		p.returnSig(n.ReturnType, n.ErrorType)
		p.buf.WriteString(" ")
		p.block(n.Body)

	case *ast.Spread:
		p.buf.WriteString("..")
		p.expr(n.X, 100, false)

	case *ast.ErrorExpr:
		p.buf.WriteString("error ")
		p.expr(n.Payload, 0, false)

	case *ast.AssertExpr:
		p.buf.WriteString("assert ")
		p.expr(n.Cond, 0, false)

	case *ast.ErrorNode:
		p.buf.WriteString("<error>")

	default:
		p.buf.WriteString(fmt.Sprintf("/* unknown expr %T */", n))
	}
	_ = isRight
}

func (p *Printer) pattern(pat ast.Pattern) {
	switch n := pat.(type) {
	case *ast.LiteralPattern:
		p.expr(n.Value, 0, false)
	case *ast.IdentPattern:
		p.buf.WriteString(n.Name)
	case *ast.WildcardPattern:
		p.buf.WriteString("else")
	case *ast.RangePattern:
		p.expr(n.Start, 0, false)
		p.buf.WriteString("..")
		p.expr(n.End, 0, false)
	case *ast.TuplePattern:
		p.buf.WriteString("(")
		for i, el := range n.Elements {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.pattern(el)
		}
		p.buf.WriteString(")")
	case *ast.ArrayPattern:
		p.buf.WriteString("[")
		for i, el := range n.Elements {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.pattern(el)
		}
		if n.HasSpread {
			if len(n.Elements) > 0 {
				p.buf.WriteString(", ")
			}
			p.buf.WriteString(".." + n.SpreadName)
		}
		p.buf.WriteString("]")
	case *ast.OrPattern:
		for i, alt := range n.Alternatives {
			if i > 0 {
				p.buf.WriteString(" | ")
			}
			p.pattern(alt)
		}
	case *ast.EnumVariantPattern:
		if n.HasEnumName {
			p.buf.WriteString(n.EnumName + ".")
		}
		p.buf.WriteString(n.Variant)
		if n.HasPayload {
			p.buf.WriteString("(")
			for i, sp := range n.SubPatterns {
				if i > 0 {
					p.buf.WriteString(", ")
				}
				p.pattern(sp)
			}
			p.buf.WriteString(")")
		}
	default:
		p.buf.WriteString(fmt.Sprintf("/* unknown pattern %T */", n))
	}
}
