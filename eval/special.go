// Copyright © 2018 The ELPS authors

package eval

import (
	"context"

	"github.com/luthersystems/skim/env"
	"github.com/luthersystems/skim/lisp"
	"github.com/luthersystems/skim/serr"
)

// result is the outcome of a special form.  Forms which end by evaluating an
// expression in tail position return that expression in tail instead of a
// value so the evaluator can continue without growing the Go stack.
type result struct {
	val  *lisp.LVal
	tail *lisp.LVal
	env  *env.Env
}

func value(v *lisp.LVal) (result, error) {
	return result{val: v}, nil
}

func tailCall(x *lisp.LVal, e *env.Env) (result, error) {
	return result{tail: x, env: e}, nil
}

type specialFormFunc func(ev *Evaluator, ctx context.Context, x *lisp.LVal, e *env.Env, depth int) (result, error)

// specialForm returns the implementation of the special form name, or nil.
func specialForm(name string) specialFormFunc {
	switch name {
	case "quote":
		return (*Evaluator).evalQuote
	case "if":
		return (*Evaluator).evalIf
	case "define":
		return (*Evaluator).evalDefine
	case "set!":
		return (*Evaluator).evalSet
	case "lambda":
		return (*Evaluator).evalLambda
	case "begin":
		return (*Evaluator).evalBegin
	case "let":
		return (*Evaluator).evalLet
	case "and":
		return (*Evaluator).evalAnd
	case "or":
		return (*Evaluator).evalOr
	case "cond":
		return (*Evaluator).evalCond
	}
	return nil
}

// IsSpecialForm returns true if name is handled by the evaluator rather than
// bound in an environment.
func IsSpecialForm(name string) bool {
	return specialForm(name) != nil
}

// SpecialForms lists the names of special forms.
var SpecialForms = []string{"and", "begin", "cond", "define", "if", "lambda", "let", "or", "quote", "set!"}

// (quote x)
func (ev *Evaluator) evalQuote(ctx context.Context, x *lisp.LVal, e *env.Env, depth int) (result, error) {
	if len(x.Cells) != 2 {
		return result{}, serr.Unexpected(x)
	}
	return value(x.Cells[1])
}

// (if test then [else])
func (ev *Evaluator) evalIf(ctx context.Context, x *lisp.LVal, e *env.Env, depth int) (result, error) {
	if len(x.Cells) < 3 || len(x.Cells) > 4 {
		return result{}, serr.Unexpected(x)
	}
	test, err := ev.eval(ctx, x.Cells[1], e, depth+1)
	if err != nil {
		return result{}, err
	}
	if test.IsTrue() {
		return tailCall(x.Cells[2], e)
	}
	if len(x.Cells) == 4 {
		return tailCall(x.Cells[3], e)
	}
	return value(lisp.Unspecified())
}

// (define name expr) or (define (name params...) body...)
func (ev *Evaluator) evalDefine(ctx context.Context, x *lisp.LVal, e *env.Env, depth int) (result, error) {
	if len(x.Cells) < 2 {
		return result{}, serr.IdentifierNotFound(x.String())
	}
	target := x.Cells[1]
	if target.Type == lisp.LSExpr {
		if target.IsNil() || target.Cells[0].Type != lisp.LSymbol {
			return result{}, serr.IdentifierNotFound(target.String())
		}
		name := target.Cells[0].Str
		params := lisp.SExpr(target.Cells[1:])
		fn, err := makeClosure(name, params, x.Cells[2:], e)
		if err != nil {
			return result{}, err
		}
		e.Define(name, fn)
		return value(lisp.Unspecified())
	}
	if target.Type != lisp.LSymbol {
		return result{}, serr.IdentifierNotFound(target.String())
	}
	if len(x.Cells) != 3 {
		return result{}, serr.ExpressionNotFound(x.String())
	}
	v, err := ev.eval(ctx, x.Cells[2], e, depth+1)
	if err != nil {
		return result{}, err
	}
	e.Define(target.Str, named(v, target.Str))
	return value(lisp.Unspecified())
}

// (set! name expr)
func (ev *Evaluator) evalSet(ctx context.Context, x *lisp.LVal, e *env.Env, depth int) (result, error) {
	if len(x.Cells) < 2 || x.Cells[1].Type != lisp.LSymbol {
		if len(x.Cells) < 2 {
			return result{}, serr.IdentifierNotFound(x.String())
		}
		return result{}, serr.IdentifierNotFound(x.Cells[1].String())
	}
	if len(x.Cells) != 3 {
		return result{}, serr.ExpressionNotFound(x.String())
	}
	v, err := ev.eval(ctx, x.Cells[2], e, depth+1)
	if err != nil {
		return result{}, err
	}
	if err := e.Set(x.Cells[1].Str, v); err != nil {
		return result{}, err
	}
	return value(lisp.Unspecified())
}

// (lambda (params...) body...) or (lambda args body...)
func (ev *Evaluator) evalLambda(ctx context.Context, x *lisp.LVal, e *env.Env, depth int) (result, error) {
	if len(x.Cells) < 2 {
		return result{}, serr.Unexpected(x)
	}
	fn, err := makeClosure("", x.Cells[1], x.Cells[2:], e)
	if err != nil {
		return result{}, err
	}
	fn.Source = x.Source
	return value(fn)
}

// (begin body...)
func (ev *Evaluator) evalBegin(ctx context.Context, x *lisp.LVal, e *env.Env, depth int) (result, error) {
	return ev.sequence(ctx, x.Cells[1:], e, depth)
}

// (let ((name expr)...) body...) or (let loop ((name expr)...) body...)
func (ev *Evaluator) evalLet(ctx context.Context, x *lisp.LVal, e *env.Env, depth int) (result, error) {
	if len(x.Cells) < 3 {
		return result{}, serr.Unexpected(x)
	}
	var loop string
	bindings := x.Cells[1]
	body := x.Cells[2:]
	if bindings.Type == lisp.LSymbol {
		if len(x.Cells) < 4 {
			return result{}, serr.Unexpected(x)
		}
		loop = bindings.Str
		bindings = x.Cells[2]
		body = x.Cells[3:]
	}
	if bindings.Type != lisp.LSExpr {
		return result{}, serr.Unexpected(bindings)
	}
	names := make([]*lisp.LVal, len(bindings.Cells))
	letEnv := env.NewN(e, len(bindings.Cells))
	for i, b := range bindings.Cells {
		if b.Type != lisp.LSExpr || len(b.Cells) != 2 {
			return result{}, serr.Unexpected(b)
		}
		if b.Cells[0].Type != lisp.LSymbol {
			return result{}, serr.IdentifierNotFound(b.Cells[0].String())
		}
		v, err := ev.eval(ctx, b.Cells[1], e, depth+1)
		if err != nil {
			return result{}, err
		}
		names[i] = b.Cells[0]
		letEnv.Define(b.Cells[0].Str, v)
	}
	if loop != "" {
		loopEnv := env.NewN(e, 1)
		fn, err := makeClosure(loop, lisp.SExpr(names), body, loopEnv)
		if err != nil {
			return result{}, err
		}
		loopEnv.Define(loop, fn)
		letEnv.Parent = loopEnv
	}
	return ev.sequence(ctx, body, letEnv, depth)
}

// (and expr...)
func (ev *Evaluator) evalAnd(ctx context.Context, x *lisp.LVal, e *env.Env, depth int) (result, error) {
	if len(x.Cells) == 1 {
		return value(lisp.Bool(true))
	}
	for _, c := range x.Cells[1 : len(x.Cells)-1] {
		v, err := ev.eval(ctx, c, e, depth+1)
		if err != nil {
			return result{}, err
		}
		if !v.IsTrue() {
			return value(v)
		}
	}
	return tailCall(x.Cells[len(x.Cells)-1], e)
}

// (or expr...)
func (ev *Evaluator) evalOr(ctx context.Context, x *lisp.LVal, e *env.Env, depth int) (result, error) {
	if len(x.Cells) == 1 {
		return value(lisp.Bool(false))
	}
	for _, c := range x.Cells[1 : len(x.Cells)-1] {
		v, err := ev.eval(ctx, c, e, depth+1)
		if err != nil {
			return result{}, err
		}
		if v.IsTrue() {
			return value(v)
		}
	}
	return tailCall(x.Cells[len(x.Cells)-1], e)
}

// (cond (test body...)... [(else body...)])
func (ev *Evaluator) evalCond(ctx context.Context, x *lisp.LVal, e *env.Env, depth int) (result, error) {
	for i, clause := range x.Cells[1:] {
		if clause.Type != lisp.LSExpr || clause.IsNil() {
			return result{}, serr.Unexpected(clause)
		}
		if clause.Cells[0].IsSymbol("else") {
			if i != len(x.Cells)-2 || len(clause.Cells) < 2 {
				return result{}, serr.Unexpected(clause)
			}
			return ev.sequence(ctx, clause.Cells[1:], e, depth)
		}
		test, err := ev.eval(ctx, clause.Cells[0], e, depth+1)
		if err != nil {
			return result{}, err
		}
		if !test.IsTrue() {
			continue
		}
		if len(clause.Cells) == 1 {
			return value(test)
		}
		return ev.sequence(ctx, clause.Cells[1:], e, depth)
	}
	return value(lisp.Unspecified())
}

// sequence evaluates all but the last of body and returns the last in tail
// position.
func (ev *Evaluator) sequence(ctx context.Context, body []*lisp.LVal, e *env.Env, depth int) (result, error) {
	if len(body) == 0 {
		return value(lisp.Unspecified())
	}
	for _, x := range body[:len(body)-1] {
		if _, err := ev.eval(ctx, x, e, depth+1); err != nil {
			return result{}, err
		}
	}
	return tailCall(body[len(body)-1], e)
}
