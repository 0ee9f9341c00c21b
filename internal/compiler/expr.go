package compiler

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/bytecode"
	"github.com/alii/al/internal/types"
)

var builtinOps = map[string]bytecode.Op{
	"print":       bytecode.OpPrint,
	"to_string":   bytecode.OpToString,
	"str_concat":  bytecode.OpStrConcat,
	"str_split":   bytecode.OpStrSplit,
	"array_len":    bytecode.OpArrayLen,
	"array_slice":  bytecode.OpArraySlice,
	"array_concat": bytecode.OpArrayConcat,
	"file_read":   bytecode.OpFileRead,
	"file_write":  bytecode.OpFileWrite,
	"tcp_listen":  bytecode.OpTCPListen,
	"tcp_accept":  bytecode.OpTCPAccept,
	"tcp_read":    bytecode.OpTCPRead,
	"tcp_write":   bytecode.OpTCPWrite,
	"tcp_close":   bytecode.OpTCPClose,
}

// compileExpr compiles e, leaving its value on top of the stack. tail marks
// whether e itself is in tail position (only call expressions and the
// control-flow forms that propagate it care).
func (c *Compiler) compileExpr(e ast.Expr, tail bool) {
	switch n := e.(type) {
	case *ast.NumberLit:
		if n.IsFloat {
			c.emit(bytecode.OpPushConst, c.prog.AddConstant(bytecode.Float(n.FloatValue)))
		} else {
			c.emit(bytecode.OpPushConst, c.prog.AddConstant(bytecode.Int(n.IntValue)))
		}
	case *ast.StringLit:
		c.emit(bytecode.OpPushConst, c.prog.AddConstant(bytecode.String(n.Value)))
	case *ast.CharLit:
		c.emit(bytecode.OpPushConst, c.prog.AddConstant(bytecode.String(string(n.Value))))
	case *ast.InterpStringLit:
		c.compileInterp(n)
	case *ast.BoolLit:
		if n.Value {
			c.emit(bytecode.OpPushTrue, 0)
		} else {
			c.emit(bytecode.OpPushFalse, 0)
		}
	case *ast.NoneLit:
		c.emit(bytecode.OpPushNone, 0)
	case *ast.Ident:
		c.compileIdent(n)
	case *ast.Block:
		c.compileBlockKeep(n, tail)
	case *ast.If:
		c.compileIf(n, tail)
	case *ast.Match:
		c.compileMatch(n, tail)
	case *ast.OrExpr:
		c.compileOr(n, tail)
	case *ast.PropagateNone:
		c.compileExpr(n.X, false)
		c.emit(bytecode.OpDup, 0)
		c.emit(bytecode.OpIsFailure, 0)
		skip := c.emitJump(bytecode.OpJumpIfFalse)
		c.emit(bytecode.OpRet, 0)
		c.patchJump(skip)
	case *ast.BinaryExpr:
		c.compileBinary(n)
	case *ast.UnaryExpr:
		c.compileExpr(n.X, false)
		switch n.Op {
		case "!":
			c.emit(bytecode.OpNot, 0)
		case "-":
			c.emit(bytecode.OpNeg, 0)
		}
	case *ast.CallExpr:
		c.compileCall(n, tail)
	case *ast.PropertyAccess:
		c.compileProperty(n)
	case *ast.ArrayLit:
		for _, el := range n.Elements {
			c.compileExpr(el, false)
		}
		c.emit(bytecode.OpMakeArray, len(n.Elements))
	case *ast.TupleLit:
		for _, el := range n.Elements {
			c.compileExpr(el, false)
		}
		c.emit(bytecode.OpMakeTuple, len(n.Elements))
	case *ast.ArrayIndex:
		c.compileExpr(n.Target, false)
		c.compileExpr(n.Index, false)
		c.emit(bytecode.OpIndex, 0)
	case *ast.RangeExpr:
		c.compileExpr(n.Start, false)
		c.compileExpr(n.End, false)
		c.emit(bytecode.OpMakeRange, 0)
	case *ast.StructInit:
		c.compileStructInit(n)
	case *ast.FunctionExpr:
		c.compileFunctionValue("", n.TypeParams, n.Params, n.Body)
	case *ast.Spread:
		c.compileExpr(n.X, false)
	case *ast.ErrorExpr:
		c.compileExpr(n.Payload, false)
		c.emit(bytecode.OpMakeError, 0)
	case *ast.AssertExpr:
		c.compileExpr(n.Cond, false)
		c.emit(bytecode.OpNot, 0)
		skip := c.emitJump(bytecode.OpJumpIfFalse)
		msgIdx := c.prog.AddConstant(bytecode.String("assertion failed"))
		c.emit(bytecode.OpPushConst, msgIdx)
		c.emit(bytecode.OpMakeError, 0)
		c.emit(bytecode.OpRet, 0)
		c.patchJump(skip)
		c.emit(bytecode.OpPushNone, 0)
	case *ast.ErrorNode:
		c.emit(bytecode.OpPushNone, 0)
	default:
		c.emit(bytecode.OpPushNone, 0)
	}
}

func (c *Compiler) compileIdent(n *ast.Ident) {
	if c.resolveName(n.Name) {
		return
	}
	if en, ok := c.typesOf[n].(*types.Enum); ok {
		c.emitUnitEnum(en.Name, n.Name)
		return
	}
	// Checker already reported undefined-variable; emit a placeholder so
	// compilation can proceed.
	c.emit(bytecode.OpPushNone, 0)
}

func (c *Compiler) emitUnitEnum(enumName, variant string) {
	tag := bytecode.EnumTag{EnumName: enumName, Variant: variant}
	c.emit(bytecode.OpPushConst, c.prog.AddConstant(tag))
	c.emit(bytecode.OpMakeEnum, 0)
}

func (c *Compiler) compileInterp(n *ast.InterpStringLit) {
	if len(n.Parts) == 0 {
		c.emit(bytecode.OpPushConst, c.prog.AddConstant(bytecode.String("")))
		return
	}
	for i, part := range n.Parts {
		if part.IsExpr {
			c.compileExpr(part.Expr, false)
			c.emit(bytecode.OpToString, 0)
		} else {
			c.emit(bytecode.OpPushConst, c.prog.AddConstant(bytecode.String(part.Text)))
		}
		if i > 0 {
			c.emit(bytecode.OpStrConcat, 0)
		}
	}
}

func (c *Compiler) compileIf(n *ast.If, tail bool) {
	c.compileExpr(n.Cond, false)
	elseJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.compileExpr(n.Then, tail)
	if n.Else == nil {
		end := c.emitJump(bytecode.OpJump)
		c.patchJump(elseJump)
		c.emit(bytecode.OpPushNone, 0)
		c.patchJump(end)
		return
	}
	end := c.emitJump(bytecode.OpJump)
	c.patchJump(elseJump)
	c.compileExpr(n.Else, tail)
	c.patchJump(end)
}

func (c *Compiler) compileOr(n *ast.OrExpr, tail bool) {
	c.compileExpr(n.Left, false)
	c.emit(bytecode.OpDup, 0)
	c.emit(bytecode.OpIsFailure, 0)
	skip := c.emitJump(bytecode.OpJumpIfFalse)
	if n.HasErrName {
		c.emit(bytecode.OpUnwrapFailure, 0)
		c.cur.pushBlock()
		slot := c.cur.declare(n.ErrName)
		c.emit(bytecode.OpStoreLocal, slot)
		c.compileExpr(n.Handler, tail)
		c.cur.popBlock()
	} else {
		c.emit(bytecode.OpPop, 0)
		c.compileExpr(n.Handler, tail)
	}
	end := c.emitJump(bytecode.OpJump)
	c.patchJump(skip)
	c.patchJump(end)
}

func (c *Compiler) compileBinary(n *ast.BinaryExpr) {
	switch n.Op {
	case "&&":
		c.compileExpr(n.Left, false)
		c.emit(bytecode.OpDup, 0)
		skip := c.emitJump(bytecode.OpJumpIfFalse)
		c.emit(bytecode.OpPop, 0)
		c.compileExpr(n.Right, false)
		c.patchJump(skip)
		return
	case "||":
		c.compileExpr(n.Left, false)
		c.emit(bytecode.OpDup, 0)
		skip := c.emitJump(bytecode.OpJumpIfTrue)
		c.emit(bytecode.OpPop, 0)
		c.compileExpr(n.Right, false)
		c.patchJump(skip)
		return
	}
	c.compileExpr(n.Left, false)
	c.compileExpr(n.Right, false)
	switch n.Op {
	case "+":
		lt := c.typesOf[n.Left]
		if types.Equal(lt, types.String) {
			c.emit(bytecode.OpStrConcat, 0)
		} else {
			c.emit(bytecode.OpAdd, 0)
		}
	case "-":
		c.emit(bytecode.OpSub, 0)
	case "*":
		c.emit(bytecode.OpMul, 0)
	case "/":
		c.emit(bytecode.OpDiv, 0)
	case "%":
		c.emit(bytecode.OpMod, 0)
	case "==":
		c.emit(bytecode.OpEq, 0)
	case "!=":
		c.emit(bytecode.OpNeq, 0)
	case "<":
		c.emit(bytecode.OpLt, 0)
	case ">":
		c.emit(bytecode.OpGt, 0)
	case "<=":
		c.emit(bytecode.OpLte, 0)
	case ">=":
		c.emit(bytecode.OpGte, 0)
	}
}

func (c *Compiler) compileProperty(n *ast.PropertyAccess) {
	c.compileExpr(n.Target, false)
	if _, isTuple := c.typesOf[n.Target].(types.Tuple); isTuple {
		c.emit(bytecode.OpTupleIndex, tupleFieldIndex(n.Name))
		return
	}
	if s, ok := c.typesOf[n.Target].(*types.Struct); ok {
		if full := c.env.Structs[s.Name]; full != nil {
			for i, f := range full.FieldOrder {
				if f == n.Name {
					c.emit(bytecode.OpGetField, i)
					return
				}
			}
		}
	}
	c.emit(bytecode.OpGetField, 0)
}

func tupleFieldIndex(name string) int {
	n := 0
	for _, ch := range name {
		if ch < '0' || ch > '9' {
			return 0
		}
		n = n*10 + int(ch-'0')
	}
	return n
}

func (c *Compiler) compileStructInit(n *ast.StructInit) {
	s := c.env.Structs[n.TypeName]
	if s == nil {
		tag := bytecode.StructTag{Name: n.TypeName}
		for _, f := range n.Fields {
			tag.Fields = append(tag.Fields, f.Name)
		}
		c.emit(bytecode.OpPushConst, c.prog.AddConstant(tag))
		for _, f := range n.Fields {
			c.compileExpr(f.Value, false)
		}
		c.emit(bytecode.OpMakeStruct, len(n.Fields))
		return
	}
	c.emit(bytecode.OpPushConst, c.prog.AddConstant(bytecode.StructTag{Name: n.TypeName, Fields: s.FieldOrder}))
	byName := map[string]ast.Expr{}
	for _, f := range n.Fields {
		byName[f.Name] = f.Value
	}
	for _, name := range s.FieldOrder {
		if v, ok := byName[name]; ok {
			c.compileExpr(v, false)
		} else {
			c.emit(bytecode.OpPushNone, 0)
		}
	}
	c.emit(bytecode.OpMakeStruct, len(s.FieldOrder))
}
