// Package opl implements the OPL scripting language: a lexer, a parser and
// a tree-walking evaluator. The language supports:
//   - Variables declared with `let name:Type = value;` (types are parsed,
//     not checked) and assignment with `=`, `+=`, `-=`, `*=`, `/=`, `%=`,
//     `<<=` and `>>=`.
//   - Integers, floats, strings in single or double quotes, `true`, `false`,
//     `null` and array literals `[1, 2, 3]`.
//   - `if`/`else`, `while`, counted `for (init; cond; advance)` loops,
//     `break`, `continue` and `return`.
//   - Functions via `def name(a:Int) -> Int { ... }` and lambdas via
//     `$(a:Int) { ... }`.
//   - Classes with fields, methods and a `constructor`, instantiated with
//     `new Name(args)`.
//
// Numbers are stored as decimal text and parsed by each operator. Calls run
// in a frame whose parent is the global scope, never the caller's scope.
// Comments begin with `#`. Evaluation stops at the first RuntimeError.
package opl
