package checker

import (
	"github.com/alii/al/internal/ast"
	"github.com/alii/al/internal/types"
)

// hoist collects all top-level struct/enum/const/fn declarations into the
// type environment before any body is checked, so mutual recursion between
// top-level declarations is legal (§4.3 step 1).
func (c *Checker) hoist(file *ast.File) {
	// Pass 1: register struct/enum shells (name + id) so field/variant types
	// can reference each other regardless of declaration order.
	for _, stmt := range unwrapExports(file.Stmts) {
		switch d := stmt.(type) {
		case *ast.StructDeclaration:
			c.env.RegisterStruct(&types.Struct{ID: c.env.NextTypeID(), Name: d.Name, TypeParams: d.TypeParams})
		case *ast.EnumDeclaration:
			c.env.RegisterEnum(&types.Enum{ID: c.env.NextTypeID(), Name: d.Name, TypeParams: d.TypeParams})
		}
	}

	// Pass 2: fill in field/variant types now that every struct/enum name
	// resolves, and hoist fn signatures and const declarations.
	for _, stmt := range unwrapExports(file.Stmts) {
		switch d := stmt.(type) {
		case *ast.StructDeclaration:
			s := c.env.Structs[d.Name]
			for _, f := range d.Fields {
				s.FieldOrder = append(s.FieldOrder, f.Name)
				if s.Fields == nil {
					s.Fields = map[string]types.Type{}
				}
				s.Fields[f.Name] = c.resolveType(f.Type)
			}
		case *ast.EnumDeclaration:
			en := c.env.Enums[d.Name]
			en.Variants = map[string][]types.Type{}
			for _, v := range d.Variants {
				en.VariantOrder = append(en.VariantOrder, v.Name)
				payload := make([]types.Type, len(v.Payload))
				for i, p := range v.Payload {
					payload[i] = c.resolveType(p)
				}
				en.Variants[v.Name] = payload
				c.env.VariantOwner[v.Name] = append(c.env.VariantOwner[v.Name], en)
			}
		case *ast.FunctionDeclaration:
			sig := &types.FuncSig{TypeParams: d.TypeParams}
			for _, p := range d.Params {
				if p.Type != nil {
					sig.Params = append(sig.Params, c.resolveType(p.Type))
				} else {
					sig.Params = append(sig.Params, c.env.FreshVar())
				}
			}
			if d.ReturnType != nil {
				sig.Ret = c.resolveType(d.ReturnType)
			} else {
				sig.Ret = c.env.FreshVar()
			}
			if d.ErrorType != nil {
				sig.Err = c.resolveType(d.ErrorType)
			}
			c.env.Functions[d.Name] = sig
		case *ast.VarBinding:
			if d.IsConst {
				// Const types are inferred from their initializer during the
				// checking pass; reserve the name now so forward references
				// to it type-check, deferring the exact type to a fresh var.
				if ip, ok := d.Pattern.(*ast.IdentPattern); ok {
					c.env.Consts[ip.Name] = c.env.FreshVar()
				}
			}
		}
	}
}

func unwrapExports(stmts []ast.Stmt) []ast.Stmt {
	out := make([]ast.Stmt, len(stmts))
	for i, s := range stmts {
		if ex, ok := s.(*ast.ExportStmt); ok {
			out[i] = ex.Decl
		} else {
			out[i] = s
		}
	}
	return out
}
