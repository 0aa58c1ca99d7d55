// Package terse implements the TerseScript interpreter, a small
// line-oriented scripting language in which calls take no parentheses:
//   - A preprocessor lifts multi-line STRING literals out of the source and
//     an arity table, built from FUNC headers and the builtins, tells the
//     parser how many arguments each call consumes.
//   - Missing call arguments are taken from an implicit value stack fed by
//     expression statements.
//   - Labeled statements are targets for GOTO, BREAK and CONTINUE.
//   - Arrays and maps are shared by reference; scalars are copied.
//
// Comments begin with `#`. Every failure is an *Error carrying its kind, the
// source position, a code frame and the user-function call stack. The EXEC
// builtins run host commands through a ProcessRunner supplied in Config.
package terse
