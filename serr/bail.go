// Copyright © 2024 The ELPS authors

package serr

import (
	"fmt"

	"github.com/luthersystems/skim/lisp"
)

// New returns a Generic failure with message msg.
func New(msg string) Error {
	return Generic{Message: msg}
}

// Errorf returns a Generic failure with a formatted message.
func Errorf(format string, v ...interface{}) Error {
	return Generic{Message: fmt.Sprintf(format, v...)}
}

// Unbound returns an UnboundVar failure for name.
func Unbound(name string) Error {
	return UnboundVar{Name: name}
}

// Unexpected returns an UnexpectedForm failure holding a copy of x, so the
// caller may keep using x.
func Unexpected(x *lisp.LVal) Error {
	return UnexpectedForm{Expr: x.Copy()}
}

// IdentifierNotFound returns a Generic failure reporting that found appeared
// where an identifier was required.
func IdentifierNotFound(found string) Error {
	return Generic{Message: "Expected an identifer, found: " + found}
}

// ExpressionNotFound returns a Generic failure reporting that found appeared
// where an expression was required.
func ExpressionNotFound(found string) Error {
	return Generic{Message: "Expected an expression, found: " + found}
}

// Fail returns the zero value of T and the payload-free variant k
// (FoundNothing, EnvNotFound or DivisionByZero), for use in return
// statements.
//
//	if d == 0 {
//		return serr.Fail[*lisp.LVal](serr.KindDivisionByZero)
//	}
//
// Fail panics if variant k carries a payload.
func Fail[T any](k Kind) (T, error) {
	var zero T
	switch k {
	case KindFoundNothing:
		return zero, FoundNothing{}
	case KindEnvNotFound:
		return zero, EnvNotFound{}
	case KindDivisionByZero:
		return zero, DivisionByZero{}
	default:
		panic(fmt.Sprintf("serr: variant %v requires a payload", k))
	}
}

// Bail returns the zero value of T and a Generic failure with message msg.
func Bail[T any, S ~string](msg S) (T, error) {
	var zero T
	return zero, Generic{Message: string(msg)}
}

// Bailf returns the zero value of T and a Generic failure with a formatted
// message.
func Bailf[T any](format string, v ...interface{}) (T, error) {
	var zero T
	return zero, Errorf(format, v...)
}

// BailWith returns the zero value of T and e.
//
//	return serr.BailWith[*lisp.LVal](serr.NewWrongArgCount(2, len(args)))
func BailWith[T any](e Error) (T, error) {
	var zero T
	return zero, e
}
