// Package stdlib holds the `--experimental-std-lib` prelude (§6): a small
// set of array helpers written as ordinary AL source and compiled ahead of
// the user's program when the flag is set, grounded on the teacher's
// internal/evaluator/builtins_std.go pattern of a flag-gated builtin
// registration step — except here the "registration" is just AL text
// prepended to the program rather than new opcodes, since every operation
// these functions need (array_len/array_slice/array_concat, indexing,
// recursion) is already expressible in the surface language.
package stdlib

// Source is the prelude's AL text. len/map/filter/reduce/range are plain
// recursive functions over the array_* builtins (§4.6) — AL has no loop
// statement, so each walks its array one element at a time via
// array_slice, the same recursive-array-walk idiom user AL code would use.
const Source = `
fn len(arr [t]) Int {
    array_len(arr)
}

fn range(start Int, end Int) [Int] {
    start..end
}

fn map(arr [t], f fn(t) u) [u] {
    if array_len(arr) == 0 {
        []
    } else {
        array_concat([f(arr[0])], map(array_slice(arr, 1, array_len(arr)), f))
    }
}

fn filter(arr [t], pred fn(t) Bool) [t] {
    if array_len(arr) == 0 {
        []
    } else {
        if pred(arr[0]) {
            array_concat([arr[0]], filter(array_slice(arr, 1, array_len(arr)), pred))
        } else {
            filter(array_slice(arr, 1, array_len(arr)), pred)
        }
    }
}

fn reduce(arr [t], init u, f fn(u, t) u) u {
    if array_len(arr) == 0 {
        init
    } else {
        reduce(array_slice(arr, 1, array_len(arr)), f(init, arr[0]), f)
    }
}
`

// Prepend returns src with the prelude compiled ahead of it, for callers
// that pass --experimental-std-lib. Diagnostics for src's own lines then
// report line numbers offset by the prelude's line count — an accepted
// trade-off for a single flat Program with one source text (§4.4); a
// caller that needs accurate positions for user code should report spans
// before prepending instead of after.
func Prepend(src string) string {
	return Source + "\n" + src
}
