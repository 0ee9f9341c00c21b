package ast

// File is the root of a parsed source file: an ordered list of top-level
// statements (struct/enum/const/fn declarations, imports, exports, and bare
// expressions evaluated at top level for `build`/REPL use).
type File struct {
	Base
	Stmts []Stmt
}
