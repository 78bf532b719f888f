// Copyright © 2024 The ELPS authors

/*
Package serr defines the failures raised by every stage of the interpreter:
the lexer, the parser, environment resolution and evaluation.

The set of failures is closed.  Each variant is a struct type implementing
Error and carries exactly the data needed to explain itself, its Error method
renders the message shown to users.  Values are immutable and are returned up
the call stack unchanged until the driver renders them.

	func car(args []*lisp.LVal) (*lisp.LVal, error) {
		if len(args) != 1 {
			return serr.BailWith[*lisp.LVal](serr.NewWrongArgCount(1, len(args)))
		}
		...
	}
*/
package serr

import (
	"fmt"

	"github.com/luthersystems/skim/lisp"
	"github.com/luthersystems/skim/parser/token"
	"github.com/luthersystems/skim/sysenv"
)

// Error is implemented by every failure variant in this package and by no
// other type.
type Error interface {
	error
	// Kind identifies the variant.
	Kind() Kind
	// Copy returns an equivalent failure sharing no expression or token
	// memory with the receiver.
	Copy() Error

	isError()
}

// Kind identifies a failure variant.
type Kind uint

// Kind values, one per variant.
const (
	KindGeneric Kind = iota
	KindFoundNothing
	KindEnvNotFound
	KindDivisionByZero
	KindUnexpectedForm
	KindUnexpectedToken
	KindNotExpectedToken
	KindCast
	KindUnboundVar
	KindNotAProcedure
	KindWrongArgCount
	KindIndexOutOfBounds
	KindTypeMismatch
	KindWrongPort
	KindIOErr
	KindVarErr

	numKinds
)

var kindStrings = [numKinds]string{
	KindGeneric:          "Generic",
	KindFoundNothing:     "FoundNothing",
	KindEnvNotFound:      "EnvNotFound",
	KindDivisionByZero:   "DivisionByZero",
	KindUnexpectedForm:   "UnexpectedForm",
	KindUnexpectedToken:  "UnexpectedToken",
	KindNotExpectedToken: "NotExpectedToken",
	KindCast:             "Cast",
	KindUnboundVar:       "UnboundVar",
	KindNotAProcedure:    "NotAProcedure",
	KindWrongArgCount:    "WrongArgCount",
	KindIndexOutOfBounds: "IndexOutOfBounds",
	KindTypeMismatch:     "TypeMismatch",
	KindWrongPort:        "WrongPort",
	KindIOErr:            "IOErr",
	KindVarErr:           "VarErr",
}

func (k Kind) String() string {
	if k >= numKinds {
		return fmt.Sprintf("Kind(%d)", uint(k))
	}
	return kindStrings[k]
}

var (
	_ Error = Generic{}
	_ Error = FoundNothing{}
	_ Error = EnvNotFound{}
	_ Error = DivisionByZero{}
	_ Error = UnexpectedForm{}
	_ Error = UnexpectedToken{}
	_ Error = NotExpectedToken{}
	_ Error = Cast{}
	_ Error = UnboundVar{}
	_ Error = NotAProcedure{}
	_ Error = WrongArgCount{}
	_ Error = IndexOutOfBounds{}
	_ Error = TypeMismatch{}
	_ Error = WrongPort{}
	_ Error = IOErr{}
	_ Error = VarErr{}
)

// Generic is a free-form failure.
type Generic struct {
	Message string
}

// NewGeneric returns a Generic failure with message msg.
func NewGeneric(msg string) Error { return Generic{Message: msg} }

func (e Generic) Error() string { return e.Message }
func (e Generic) Kind() Kind    { return KindGeneric }
func (e Generic) Copy() Error   { return e }
func (Generic) isError()        {}

// FoundNothing means the input ended where a token or expression was
// required.
type FoundNothing struct{}

// NewFoundNothing returns a FoundNothing failure.
func NewFoundNothing() Error { return FoundNothing{} }

func (FoundNothing) Error() string {
	return "Expected some expression or token, found nothing."
}
func (FoundNothing) Kind() Kind    { return KindFoundNothing }
func (e FoundNothing) Copy() Error { return e }
func (FoundNothing) isError()      {}

// EnvNotFound means no environment in the scope chain binds a name.
type EnvNotFound struct{}

// NewEnvNotFound returns an EnvNotFound failure.
func NewEnvNotFound() Error { return EnvNotFound{} }

func (EnvNotFound) Error() string {
	return "Environment not found. (Probably an unbound variable)"
}
func (EnvNotFound) Kind() Kind    { return KindEnvNotFound }
func (e EnvNotFound) Copy() Error { return e }
func (EnvNotFound) isError()      {}

// DivisionByZero means an arithmetic division by zero was attempted.
type DivisionByZero struct{}

// NewDivisionByZero returns a DivisionByZero failure.
func NewDivisionByZero() Error { return DivisionByZero{} }

func (DivisionByZero) Error() string { return "Division by zero" }
func (DivisionByZero) Kind() Kind    { return KindDivisionByZero }
func (e DivisionByZero) Copy() Error { return e }
func (DivisionByZero) isError()      {}

// UnexpectedForm means a parsed expression does not have any of the shapes
// expected where it appeared.
type UnexpectedForm struct {
	Expr *lisp.LVal
}

// NewUnexpectedForm returns an UnexpectedForm failure holding x.  See
// Unexpected to keep the caller's expression independent of the failure.
func NewUnexpectedForm(x *lisp.LVal) Error { return UnexpectedForm{Expr: x} }

func (e UnexpectedForm) Error() string {
	return fmt.Sprintf("Expression is in unexpected form: %s", e.Expr)
}
func (UnexpectedForm) Kind() Kind    { return KindUnexpectedForm }
func (e UnexpectedForm) Copy() Error { return UnexpectedForm{Expr: e.Expr.Copy()} }
func (UnexpectedForm) isError()      {}

// UnexpectedToken means a token appeared where no token, or a different
// one, was expected.
type UnexpectedToken struct {
	Token *token.Token
}

// NewUnexpectedToken returns an UnexpectedToken failure.
func NewUnexpectedToken(tok *token.Token) Error { return UnexpectedToken{Token: tok} }

func (e UnexpectedToken) Error() string {
	return fmt.Sprintf("Not expected this token: %s", e.Token)
}
func (UnexpectedToken) Kind() Kind    { return KindUnexpectedToken }
func (e UnexpectedToken) Copy() Error { return UnexpectedToken{Token: e.Token.Copy()} }
func (UnexpectedToken) isError()      {}

// NotExpectedToken means a specific token was expected and another was
// found.
type NotExpectedToken struct {
	Expected *token.Token
	Found    *token.Token
}

// NewNotExpectedToken returns a NotExpectedToken failure.
func NewNotExpectedToken(expected, found *token.Token) Error {
	return NotExpectedToken{Expected: expected, Found: found}
}

func (e NotExpectedToken) Error() string {
	return fmt.Sprintf("Expected one of %s, found %s", e.Expected, e.Found)
}
func (NotExpectedToken) Kind() Kind { return KindNotExpectedToken }
func (e NotExpectedToken) Copy() Error {
	return NotExpectedToken{Expected: e.Expected.Copy(), Found: e.Found.Copy()}
}
func (NotExpectedToken) isError() {}

// Cast means an expression could not be converted to Type.
type Cast struct {
	Type string
	Expr *lisp.LVal
}

// NewCast returns a Cast failure.
func NewCast(typ string, x *lisp.LVal) Error { return Cast{Type: typ, Expr: x} }

func (e Cast) Error() string {
	return fmt.Sprintf("Can't convert %s to %s", e.Expr, e.Type)
}
func (Cast) Kind() Kind    { return KindCast }
func (e Cast) Copy() Error { return Cast{Type: e.Type, Expr: e.Expr.Copy()} }
func (Cast) isError()      {}

// UnboundVar means an identifier has no binding in any reachable scope.
type UnboundVar struct {
	Name string
}

// NewUnboundVar returns an UnboundVar failure.
func NewUnboundVar(name string) Error { return UnboundVar{Name: name} }

func (e UnboundVar) Error() string { return "Unbound variable: " + e.Name }
func (UnboundVar) Kind() Kind      { return KindUnboundVar }
func (e UnboundVar) Copy() Error   { return e }
func (UnboundVar) isError()        {}

// NotAProcedure means a value which is not callable was applied.
type NotAProcedure struct {
	Expr *lisp.LVal
}

// NewNotAProcedure returns a NotAProcedure failure.
func NewNotAProcedure(x *lisp.LVal) Error { return NotAProcedure{Expr: x} }

func (e NotAProcedure) Error() string {
	return fmt.Sprintf("Wrong type to apply, not a procedure: %s", e.Expr)
}
func (NotAProcedure) Kind() Kind    { return KindNotAProcedure }
func (e NotAProcedure) Copy() Error { return NotAProcedure{Expr: e.Expr.Copy()} }
func (NotAProcedure) isError()      {}

// WrongArgCount means a procedure received the wrong number of arguments.
type WrongArgCount struct {
	Expected int
	Found    int
}

// NewWrongArgCount returns a WrongArgCount failure.
func NewWrongArgCount(expected, found int) Error {
	return WrongArgCount{Expected: expected, Found: found}
}

func (e WrongArgCount) Error() string {
	return fmt.Sprintf("Wrong arg count; expected: %d, found: %d", e.Expected, e.Found)
}
func (WrongArgCount) Kind() Kind    { return KindWrongArgCount }
func (e WrongArgCount) Copy() Error { return e }
func (WrongArgCount) isError()      {}

// IndexOutOfBounds means a sequence index exceeded the sequence's size.
type IndexOutOfBounds struct {
	Max       int
	Requested int
}

// NewIndexOutOfBounds returns an IndexOutOfBounds failure.
func NewIndexOutOfBounds(max, requested int) Error {
	return IndexOutOfBounds{Max: max, Requested: requested}
}

func (e IndexOutOfBounds) Error() string {
	return fmt.Sprintf("Index out of bounds. Max size: %d, requested: %d", e.Max, e.Requested)
}
func (IndexOutOfBounds) Kind() Kind    { return KindIndexOutOfBounds }
func (e IndexOutOfBounds) Copy() Error { return e }
func (IndexOutOfBounds) isError()      {}

// TypeMismatch means a value's runtime type is not the expected Type.
type TypeMismatch struct {
	Type string
	Expr *lisp.LVal
}

// NewTypeMismatch returns a TypeMismatch failure.
func NewTypeMismatch(typ string, x *lisp.LVal) Error {
	return TypeMismatch{Type: typ, Expr: x}
}

func (e TypeMismatch) Error() string {
	return fmt.Sprintf("Expected a %s, found this: %s", e.Type, e.Expr)
}
func (TypeMismatch) Kind() Kind    { return KindTypeMismatch }
func (e TypeMismatch) Copy() Error { return TypeMismatch{Type: e.Type, Expr: e.Expr.Copy()} }
func (TypeMismatch) isError()      {}

// WrongPort means procedure Proc was applied to a port of an incompatible
// kind.
type WrongPort struct {
	Proc string
	Port string
}

// NewWrongPort returns a WrongPort failure.
func NewWrongPort(proc, port string) Error { return WrongPort{Proc: proc, Port: port} }

func (e WrongPort) Error() string {
	return fmt.Sprintf("Can't apply function `%s` to a port type of %s", e.Proc, e.Port)
}
func (WrongPort) Kind() Kind    { return KindWrongPort }
func (e WrongPort) Copy() Error { return e }
func (WrongPort) isError()      {}

// IOErr wraps a failure reading or writing a file or stream.
type IOErr struct {
	Err error
}

// NewIOErr returns an IOErr wrapping err.
func NewIOErr(err error) Error { return IOErr{Err: err} }

func (e IOErr) Error() string {
	if e.Err == nil {
		return "unknown I/O failure"
	}
	return e.Err.Error()
}

func (e IOErr) Unwrap() error { return e.Err }
func (IOErr) Kind() Kind      { return KindIOErr }
func (e IOErr) Copy() Error   { return e }
func (IOErr) isError()        {}

// VarErr wraps a failure reading an environment variable.
type VarErr struct {
	Err *sysenv.VarError
}

// NewVarErr returns a VarErr wrapping err.
func NewVarErr(err *sysenv.VarError) Error { return VarErr{Err: err} }

func (e VarErr) Error() string {
	if e.Err == nil {
		return "unknown environment variable failure"
	}
	return e.Err.Error()
}

func (e VarErr) Unwrap() error {
	if e.Err == nil {
		return nil
	}
	return e.Err
}

func (VarErr) Kind() Kind    { return KindVarErr }
func (e VarErr) Copy() Error { return e }
func (VarErr) isError()      {}

// Render returns the message explaining e.
func Render(e Error) string {
	return e.Error()
}
