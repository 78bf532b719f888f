// Copyright © 2024 The ELPS authors

package eval_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/luthersystems/skim/env"
	"github.com/luthersystems/skim/eval"
	"github.com/luthersystems/skim/lisp"
	"github.com/luthersystems/skim/serr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.scm")
	require.NoError(t, os.WriteFile(path, []byte(`
		; computes a factorial
		(define (fact n) (if (= n 0) 1 (* n (fact (- n 1)))))
		(display (fact 5))
		(fact 10)
	`), 0600))

	var out bytes.Buffer
	ev := eval.New(eval.WithStdout(&out))
	v, err := ev.LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "3628800", v.String())
	assert.Equal(t, "120", out.String())
}

func TestLoadFileFailures(t *testing.T) {
	dir := t.TempDir()
	ev := eval.New()

	_, err := ev.LoadFile(context.Background(), filepath.Join(dir, "missing.scm"))
	e, ok := serr.As(err)
	require.True(t, ok)
	assert.Equal(t, serr.KindIOErr, e.Kind())
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "bad.scm")
	require.NoError(t, os.WriteFile(path, []byte("(define x 1)\n(car x"), 0600))
	_, err = ev.LoadFile(context.Background(), path)
	e, ok = serr.As(err)
	require.True(t, ok)
	assert.Equal(t, serr.KindNotExpectedToken, e.Kind())
	loc := serr.Source(e)
	require.NotNil(t, loc)
	assert.Equal(t, path, loc.Path)
	assert.Equal(t, 2, loc.Line)
	_, err = ev.Global.Lookup("x")
	assert.Error(t, err, "nothing is evaluated when the program does not parse")
}

func TestFirstFailureStopsEvaluation(t *testing.T) {
	var out bytes.Buffer
	ev := eval.New(eval.WithStdout(&out))
	_, err := ev.LoadString(context.Background(), "test", `
		(display "before")
		(/ 1 0)
		(display "after")
	`)
	assert.Equal(t, serr.NewDivisionByZero(), err)
	assert.Equal(t, "before", out.String())
}

func TestEvalInEnv(t *testing.T) {
	ev := eval.New()
	local := env.New(ev.Global)
	local.Define("x", lisp.Int(4))
	x := lisp.SExpr([]*lisp.LVal{lisp.Symbol("*"), lisp.Symbol("x"), lisp.Symbol("x")})
	v, err := ev.Eval(context.Background(), x, local)
	require.NoError(t, err)
	assert.Equal(t, 16, v.Int)

	_, err = ev.Eval(context.Background(), x, ev.Global)
	assert.Equal(t, serr.NewUnboundVar("x"), err)
}

func TestApply(t *testing.T) {
	ev := eval.New()
	_, err := ev.LoadString(context.Background(), "test", "(define (twice f x) (f (f x)))")
	require.NoError(t, err)
	twice, err := ev.Global.Lookup("twice")
	require.NoError(t, err)
	inc := lisp.Fun("inc", func(args []*lisp.LVal) (*lisp.LVal, error) {
		return lisp.Int(args[0].Int + 1), nil
	})
	v, err := ev.Apply(context.Background(), twice, []*lisp.LVal{inc, lisp.Int(1)})
	require.NoError(t, err)
	assert.Equal(t, "3", v.String())

	_, err = ev.Apply(context.Background(), lisp.Int(1), nil)
	assert.Equal(t, serr.NewNotAProcedure(lisp.Int(1)), err)
}

func TestContextCancel(t *testing.T) {
	ev := eval.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ev.LoadString(ctx, "loop.scm", "(let loop () (loop))")
	e, ok := serr.As(err)
	require.True(t, ok)
	assert.Equal(t, serr.KindGeneric, e.Kind())
	assert.Equal(t, "evaluation stopped: context canceled", serr.Render(e))
}

func TestMaxDepth(t *testing.T) {
	ev := eval.New(eval.WithMaxDepth(10))
	_, err := ev.LoadString(context.Background(), "test", `
		(define (depth n) (if (= n 0) 0 (+ 1 (depth (- n 1)))))
		(depth 50)
	`)
	assert.Equal(t, serr.NewGeneric("maximum recursion depth exceeded: 10"), err)
}

func TestIsSpecialForm(t *testing.T) {
	for _, name := range eval.SpecialForms {
		assert.True(t, eval.IsSpecialForm(name), name)
	}
	assert.False(t, eval.IsSpecialForm("car"))
}

func TestFailureLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{
		Level:      hclog.Debug,
		Output:     &buf,
		JSONFormat: true,
	})
	ev := eval.New(eval.WithLogger(logger))
	_, err := ev.LoadString(context.Background(), "test", "(car '())")
	require.Error(t, err)
	log := buf.String()
	assert.Contains(t, log, `"kind":"TypeMismatch"`)
	assert.Contains(t, log, `"category":"Type mismatch."`)
	assert.Contains(t, log, `"form":"car"`)

	buf.Reset()
	_, err = ev.LoadString(context.Background(), "test", "(car")
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"kind":"NotExpectedToken"`)
}

func newTracerProvider(t *testing.T) (*trace.TracerProvider, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	return tp, exporter
}

func TestTracing(t *testing.T) {
	tp, exporter := newTracerProvider(t)
	ev := eval.New(eval.WithTracerProvider(tp), eval.WithStdout(&bytes.Buffer{}))
	_, err := ev.LoadString(context.Background(), "trace.scm", strings.Join([]string{
		"(define x 1)",
		"(display x)",
		"42",
	}, "\n"))
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)
	assert.Equal(t, "define", spans[0].Name)
	assert.Equal(t, "display", spans[1].Name)
	assert.Equal(t, "integer", spans[2].Name)
	for _, span := range spans {
		assert.Equal(t, codes.Unset, span.Status.Code)
	}
	attrs := make(map[string]interface{})
	for _, kv := range spans[1].Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, "trace.scm", attrs["code.filepath"])
	assert.Equal(t, int64(2), attrs["code.lineno"])
	assert.Equal(t, int64(1), attrs["code.column"])
}

func TestTracingFailure(t *testing.T) {
	tp, exporter := newTracerProvider(t)
	ev := eval.New(eval.WithTracerProvider(tp))
	_, err := ev.LoadString(context.Background(), "trace.scm", "(define x 1) (quotient x 0) x")
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	failed := spans[1]
	assert.Equal(t, "quotient", failed.Name)
	assert.Equal(t, codes.Error, failed.Status.Code)
	assert.Equal(t, "Division by zero", failed.Status.Description)
	attrs := make(map[string]string)
	for _, kv := range failed.Attributes {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "DivisionByZero", attrs[string(eval.AttrErrorKind)])
	assert.Equal(t, "Division by zero", attrs[string(eval.AttrErrorCategory)])
	require.Len(t, failed.Events, 1)
	assert.Equal(t, "exception", failed.Events[0].Name)
}
