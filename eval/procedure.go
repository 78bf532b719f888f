// Copyright © 2018 The ELPS authors

package eval

import (
	"context"

	"github.com/luthersystems/skim/env"
	"github.com/luthersystems/skim/lisp"
	"github.com/luthersystems/skim/serr"
)

// closure is the implementation of a procedure defined in lisp.  It is stored
// in the Native field of an LFun value.
type closure struct {
	params []string
	// rest names the parameter bound to a list of the remaining arguments,
	// when the procedure is variadic.
	rest string
	body []*lisp.LVal
	env  *env.Env
}

// makeClosure creates a procedure value.  The params are either a list of
// symbols or a single symbol bound to the list of all arguments.
func makeClosure(name string, params *lisp.LVal, body []*lisp.LVal, e *env.Env) (*lisp.LVal, error) {
	if len(body) == 0 {
		return serr.BailWith[*lisp.LVal](serr.ExpressionNotFound(lisp.SExpr(body).String()))
	}
	c := &closure{body: body, env: e}
	switch params.Type {
	case lisp.LSymbol:
		c.rest = params.Str
	case lisp.LSExpr:
		c.params = make([]string, len(params.Cells))
		for i, p := range params.Cells {
			if p.Type != lisp.LSymbol {
				return serr.BailWith[*lisp.LVal](serr.IdentifierNotFound(p.String()))
			}
			c.params[i] = p.Str
		}
	default:
		return serr.BailWith[*lisp.LVal](serr.IdentifierNotFound(params.String()))
	}
	return &lisp.LVal{Type: lisp.LFun, Str: name, Native: c}, nil
}

// bind creates the environment of a call to c and returns the body to
// evaluate in it.
func (c *closure) bind(args []*lisp.LVal) ([]*lisp.LVal, *env.Env, error) {
	if c.rest == "" && len(args) != len(c.params) {
		return nil, nil, serr.NewWrongArgCount(len(c.params), len(args))
	}
	if len(args) < len(c.params) {
		return nil, nil, serr.NewWrongArgCount(len(c.params), len(args))
	}
	callEnv := env.NewN(c.env, len(c.params)+1)
	for i, name := range c.params {
		callEnv.Define(name, args[i])
	}
	if c.rest != "" {
		rest := make([]*lisp.LVal, len(args)-len(c.params))
		copy(rest, args[len(c.params):])
		callEnv.Define(c.rest, lisp.SExpr(rest))
	}
	return c.body, callEnv, nil
}

// named gives an anonymous procedure the name it is defined as.  Other values
// are returned unchanged.
func named(v *lisp.LVal, name string) *lisp.LVal {
	if v.Type != lisp.LFun || v.Str != "" {
		return v
	}
	cp := *v
	cp.Str = name
	return &cp
}

// applyFunc is the Native value of the apply procedure, which needs the
// evaluator to call its first argument.
type applyFunc struct{}

// (apply fn arg... list)
func (ev *Evaluator) apply(ctx context.Context, args []*lisp.LVal, depth int) (*lisp.LVal, error) {
	if len(args) < 2 {
		return serr.BailWith[*lisp.LVal](serr.NewWrongArgCount(2, len(args)))
	}
	fn := args[0]
	last := args[len(args)-1]
	if last.Type != lisp.LSExpr {
		return serr.BailWith[*lisp.LVal](serr.NewTypeMismatch("list", last))
	}
	callArgs := make([]*lisp.LVal, 0, len(args)-2+len(last.Cells))
	callArgs = append(callArgs, args[1:len(args)-1]...)
	callArgs = append(callArgs, last.Cells...)
	return ev.call(ctx, fn, callArgs, depth)
}
