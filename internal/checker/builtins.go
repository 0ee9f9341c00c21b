package checker

import "github.com/alii/al/internal/types"

// registerBuiltins seeds the environment with the signatures of every name
// the compiler treats specially in its own builtinOps table
// (internal/compiler/expr.go) — print/to_string/string & array ops/the I/O
// primitives gated by --experimental-shitty-io (§6). Checking them exactly
// like a hoisted top-level function lets ordinary call-site inference
// (instantiateSig's fresh type variables per call, §4.3 Generics) apply
// without the checker needing a parallel special case per builtin.
func (c *Checker) registerBuiltins() {
	t := func() types.Type { return types.Var{Name: "t"} }
	arrT := func() types.Type { return types.Array{Elem: types.Var{Name: "t"}} }

	c.env.Functions["print"] = &types.FuncSig{Params: []types.Type{t()}, Ret: types.None{}}
	c.env.Functions["to_string"] = &types.FuncSig{Params: []types.Type{t()}, Ret: types.String}
	c.env.Functions["str_concat"] = &types.FuncSig{Params: []types.Type{types.String, types.String}, Ret: types.String}
	c.env.Functions["str_split"] = &types.FuncSig{Params: []types.Type{types.String, types.String}, Ret: types.Array{Elem: types.String}}

	c.env.Functions["array_len"] = &types.FuncSig{Params: []types.Type{arrT()}, Ret: types.Int}
	c.env.Functions["array_slice"] = &types.FuncSig{Params: []types.Type{arrT(), types.Int, types.Int}, Ret: arrT()}
	c.env.Functions["array_concat"] = &types.FuncSig{Params: []types.Type{arrT(), arrT()}, Ret: arrT()}

	c.env.Functions["file_read"] = &types.FuncSig{Params: []types.Type{types.String}, Ret: types.String, Err: types.String}
	c.env.Functions["file_write"] = &types.FuncSig{Params: []types.Type{types.String, types.String}, Ret: types.None{}, Err: types.String}
	c.env.Functions["tcp_listen"] = &types.FuncSig{Params: []types.Type{types.Int}, Ret: types.Socket{}, Err: types.String}
	c.env.Functions["tcp_accept"] = &types.FuncSig{Params: []types.Type{types.Socket{}}, Ret: types.Socket{}, Err: types.String}
	c.env.Functions["tcp_read"] = &types.FuncSig{Params: []types.Type{types.Socket{}}, Ret: types.String, Err: types.String}
	c.env.Functions["tcp_write"] = &types.FuncSig{Params: []types.Type{types.Socket{}, types.String}, Ret: types.None{}, Err: types.String}
	c.env.Functions["tcp_close"] = &types.FuncSig{Params: []types.Type{types.Socket{}}, Ret: types.None{}}
}
