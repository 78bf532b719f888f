// Copyright © 2024 The ELPS authors

package serr

import (
	"errors"

	"github.com/luthersystems/skim/lisp"
	"github.com/luthersystems/skim/parser/token"
	"github.com/luthersystems/skim/sysenv"
)

// IO adapts an error returned by a file or stream operation.  The error is
// stored unmodified and a nil err yields a nil Error.
//
//	f, err := os.Open(path)
//	if err != nil {
//		return nil, serr.IO(err)
//	}
func IO(err error) Error {
	if err == nil {
		return nil
	}
	return IOErr{Err: err}
}

// Var adapts an environment variable lookup failure.  A nil err yields a nil
// Error.
func Var(err *sysenv.VarError) Error {
	if err == nil {
		return nil
	}
	return VarErr{Err: err}
}

// Getenv looks up an environment variable, reporting failure as VarErr.
func Getenv(name string) (string, error) {
	val, err := sysenv.Lookup(name)
	if err != nil {
		var verr *sysenv.VarError
		if errors.As(err, &verr) {
			return "", Var(verr)
		}
		return "", err
	}
	return val, nil
}

// As finds the first failure in err's chain.
func As(err error) (Error, bool) {
	var e Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Source returns the location in source code of the token or expression e
// carries.  Source returns nil for failures without such a payload or whose
// payload has no location.
func Source(e Error) *token.Location {
	switch e := e.(type) {
	case UnexpectedToken:
		return tokenSource(e.Token)
	case NotExpectedToken:
		return tokenSource(e.Found)
	case UnexpectedForm:
		return exprSource(e.Expr)
	case Cast:
		return exprSource(e.Expr)
	case NotAProcedure:
		return exprSource(e.Expr)
	case TypeMismatch:
		return exprSource(e.Expr)
	default:
		return nil
	}
}

func tokenSource(tok *token.Token) *token.Location {
	if tok == nil {
		return nil
	}
	return tok.Source
}

func exprSource(x *lisp.LVal) *token.Location {
	if x == nil {
		return nil
	}
	return x.Source
}
