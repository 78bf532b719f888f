// Copyright © 2018 The ELPS authors

// Package eval evaluates lisp expressions.  Every failure returned by an
// Evaluator is a serr.Error.
package eval

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/luthersystems/skim/env"
	"github.com/luthersystems/skim/lisp"
	"github.com/luthersystems/skim/parser"
	"github.com/luthersystems/skim/serr"
)

// TracerName is the instrumentation name of spans created by an Evaluator.
const TracerName = "github.com/luthersystems/skim/eval"

// DefaultMaxDepth is the default limit on nested (non-tail) evaluation.
const DefaultMaxDepth = 10000

// Span attributes set on failed top-level forms.
const (
	AttrErrorKind     = attribute.Key("skim.error.kind")
	AttrErrorCategory = attribute.Key("skim.error.category")
)

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithStdout sets the stream written by display, newline and write-string when
// no port is given.
func WithStdout(w io.Writer) Option {
	return func(ev *Evaluator) {
		ev.stdout = w
	}
}

// WithStdin sets the stream read by read-line when no port is given.
func WithStdin(r io.Reader) Option {
	return func(ev *Evaluator) {
		ev.stdin = r
	}
}

// WithLogger sets the logger used to report failures.
func WithLogger(logger hclog.Logger) Option {
	return func(ev *Evaluator) {
		ev.logger = logger
	}
}

// WithTracerProvider sets the provider of the tracer used to create a span
// for each top-level form.  By default the global provider is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(ev *Evaluator) {
		ev.tp = tp
	}
}

// WithMaxDepth limits the depth of nested evaluation.  Calls in tail position
// do not count towards the limit.
func WithMaxDepth(n int) Option {
	return func(ev *Evaluator) {
		ev.maxDepth = n
	}
}

// Evaluator holds the global environment and the streams of a program.  An
// Evaluator is not safe for concurrent use.
type Evaluator struct {
	Global *env.Env

	stdout   io.Writer
	stdin    io.Reader
	logger   hclog.Logger
	tp       trace.TracerProvider
	tracer   trace.Tracer
	maxDepth int
	reader   *parser.Reader
	in       *lisp.Port
	out      *lisp.Port
}

// New returns an Evaluator with a global environment containing the builtin
// procedures.
func New(opts ...Option) *Evaluator {
	ev := &Evaluator{
		Global:   env.New(nil),
		stdout:   os.Stdout,
		stdin:    os.Stdin,
		logger:   hclog.NewNullLogger(),
		maxDepth: DefaultMaxDepth,
		reader:   parser.NewReader(),
	}
	for _, opt := range opts {
		opt(ev)
	}
	if ev.tp == nil {
		ev.tp = otel.GetTracerProvider()
	}
	ev.tracer = ev.tp.Tracer(TracerName)
	ev.in = lisp.NewInputPort("stdin", io.NopCloser(ev.stdin))
	ev.out = lisp.NewOutputPort("stdout", nopCloser{ev.stdout})
	ev.defineBuiltins()
	return ev
}

// nopCloser hides the Close method of a standard stream.
type nopCloser struct {
	io.Writer
}

// LoadFile reads and evaluates the program in the file at path.  Failure to
// open or read the file is reported as serr.IOErr.
func (ev *Evaluator) LoadFile(ctx context.Context, path string) (*lisp.LVal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, serr.IO(err)
	}
	defer f.Close()
	exprs, err := ev.reader.WithPath(path).Read(path, f)
	if err != nil {
		ev.logFailure(path, err)
		return nil, err
	}
	return ev.EvalAll(ctx, exprs)
}

// LoadString reads and evaluates the program src.  The name is used in source
// locations.
func (ev *Evaluator) LoadString(ctx context.Context, name, src string) (*lisp.LVal, error) {
	exprs, err := ev.reader.Read(name, strings.NewReader(src))
	if err != nil {
		ev.logFailure(name, err)
		return nil, err
	}
	return ev.EvalAll(ctx, exprs)
}

// EvalAll evaluates exprs in order in the global environment and returns the
// value of the last one.  Evaluation stops at the first failure.
func (ev *Evaluator) EvalAll(ctx context.Context, exprs []*lisp.LVal) (*lisp.LVal, error) {
	result := lisp.Unspecified()
	for _, x := range exprs {
		var err error
		result, err = ev.evalTop(ctx, x)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (ev *Evaluator) evalTop(ctx context.Context, x *lisp.LVal) (*lisp.LVal, error) {
	name := formName(x)
	ctx, span := ev.tracer.Start(ctx, name)
	defer span.End()
	if x.Source != nil {
		span.SetAttributes(
			semconv.CodeFilepath(x.Source.File),
			semconv.CodeLineNumber(x.Source.Line),
			semconv.CodeColumn(x.Source.Col),
		)
	}
	v, err := ev.Eval(ctx, x, ev.Global)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if e, ok := serr.As(err); ok {
			span.SetAttributes(
				AttrErrorKind.String(e.Kind().String()),
				AttrErrorCategory.String(serr.Category(e)),
			)
		}
		ev.logFailure(name, err)
		return nil, err
	}
	return v, nil
}

func (ev *Evaluator) logFailure(form string, err error) {
	e, ok := serr.As(err)
	if !ok {
		ev.logger.Error("evaluation failed", "form", form, "error", err)
		return
	}
	ev.logger.Debug("evaluation failed",
		"form", form,
		"kind", e.Kind().String(),
		"category", serr.Category(e),
		"error", serr.Render(e))
}

// formName labels the span of a top-level form.
func formName(x *lisp.LVal) string {
	if x.Type == lisp.LSExpr && len(x.Cells) > 0 && x.Cells[0].Type == lisp.LSymbol {
		return x.Cells[0].Str
	}
	return x.Type.String()
}

// Eval evaluates x in environment e.
func (ev *Evaluator) Eval(ctx context.Context, x *lisp.LVal, e *env.Env) (*lisp.LVal, error) {
	return ev.eval(ctx, x, e, 0)
}

func (ev *Evaluator) eval(ctx context.Context, x *lisp.LVal, e *env.Env, depth int) (*lisp.LVal, error) {
	if depth > ev.maxDepth {
		return serr.Bailf[*lisp.LVal]("maximum recursion depth exceeded: %d", ev.maxDepth)
	}
	for {
		switch x.Type {
		case lisp.LSymbol:
			return e.Lookup(x.Str)
		case lisp.LSExpr:
		default:
			return x, nil
		}
		if x.IsNil() {
			return serr.BailWith[*lisp.LVal](serr.Unexpected(x))
		}
		if err := ctx.Err(); err != nil {
			return serr.Bailf[*lisp.LVal]("evaluation stopped: %v", err)
		}

		head := x.Cells[0]
		if head.Type == lisp.LSymbol {
			if form := specialForm(head.Str); form != nil {
				r, err := form(ev, ctx, x, e, depth)
				if err != nil {
					return nil, err
				}
				if r.tail == nil {
					return r.val, nil
				}
				x, e = r.tail, r.env
				continue
			}
		}

		fn, err := ev.eval(ctx, head, e, depth+1)
		if err != nil {
			return nil, err
		}
		args := make([]*lisp.LVal, len(x.Cells)-1)
		for i, c := range x.Cells[1:] {
			args[i], err = ev.eval(ctx, c, e, depth+1)
			if err != nil {
				return nil, err
			}
		}
		if fn.Type != lisp.LFun {
			return serr.BailWith[*lisp.LVal](serr.NewNotAProcedure(sourced(fn, head)))
		}
		c, ok := fn.Native.(*closure)
		if !ok {
			return ev.call(ctx, fn, args, depth)
		}
		body, callEnv, err := c.bind(args)
		if err != nil {
			return nil, err
		}
		for _, b := range body[:len(body)-1] {
			if _, err := ev.eval(ctx, b, callEnv, depth+1); err != nil {
				return nil, err
			}
		}
		x, e = body[len(body)-1], callEnv
	}
}

// Apply calls procedure fn with already evaluated args.
func (ev *Evaluator) Apply(ctx context.Context, fn *lisp.LVal, args []*lisp.LVal) (*lisp.LVal, error) {
	return ev.call(ctx, fn, args, 0)
}

func (ev *Evaluator) call(ctx context.Context, fn *lisp.LVal, args []*lisp.LVal, depth int) (*lisp.LVal, error) {
	if fn.Type != lisp.LFun {
		return serr.BailWith[*lisp.LVal](serr.NewNotAProcedure(fn))
	}
	switch impl := fn.Native.(type) {
	case lisp.LBuiltin:
		return impl(args)
	case *closure:
		body, callEnv, err := impl.bind(args)
		if err != nil {
			return nil, err
		}
		return ev.evalBody(ctx, body, callEnv, depth+1)
	case applyFunc:
		return ev.apply(ctx, args, depth+1)
	default:
		return serr.BailWith[*lisp.LVal](serr.NewNotAProcedure(fn))
	}
}

func (ev *Evaluator) evalBody(ctx context.Context, body []*lisp.LVal, e *env.Env, depth int) (*lisp.LVal, error) {
	v := lisp.Unspecified()
	for _, x := range body {
		var err error
		v, err = ev.eval(ctx, x, e, depth)
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

// sourced returns v, or a copy of v located at x when v has no location of
// its own.
func sourced(v, x *lisp.LVal) *lisp.LVal {
	if v.Source != nil || x.Source == nil {
		return v
	}
	cp := v.Copy()
	cp.Source = x.Source
	return cp
}
