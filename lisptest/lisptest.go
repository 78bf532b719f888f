// Copyright © 2018 The ELPS authors

// Package lisptest runs tables of lisp expressions against an evaluator.
package lisptest

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/luthersystems/skim/eval"
	"github.com/luthersystems/skim/parser"
	"github.com/luthersystems/skim/serr"
)

// TestSequence is a sequence of lisp expressions which are evaluated
// sequentially by one eval.Evaluator.
type TestSequence []struct {
	Expr   string // a lisp expression
	Result string // the evaluated result, when evaluation succeeds
	Output string // output written to the standard output of the program
	Error  string // the rendered failure, when evaluation fails
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence in tests with an isolated
// eval.Evaluator.  Options are applied to every evaluator after the test
// output and logger.
func RunTestSuite(t *testing.T, tests TestSuite, opts ...eval.Option) {
	for i, test := range tests {
		t.Logf("test %d -- %s", i, test.Name)
		var out bytes.Buffer
		ev := eval.New(append([]eval.Option{
			eval.WithStdout(&out),
			eval.WithLogger(NewHCLogger(t)),
		}, opts...)...)
		for j, expr := range test.TestSequence {
			out.Reset()
			v, err := parser.NewReader().Read("test", strings.NewReader(expr.Expr))
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			if len(v) != 1 {
				t.Errorf("test %d %q: expr %d: expected one expression (got %d)", i, test.Name, j, len(v))
				continue
			}
			result, err := ev.EvalAll(context.Background(), v)
			switch {
			case err != nil && expr.Error == "":
				t.Errorf("test %d %q: expr %d: unexpected failure: %v", i, test.Name, j, err)
			case err != nil:
				if _, ok := serr.As(err); !ok {
					t.Errorf("test %d %q: expr %d: failure is not a serr.Error: %T", i, test.Name, j, err)
				}
				if err.Error() != expr.Error {
					t.Errorf("test %d %q: expr %d: expected failure %q (got %q)", i, test.Name, j, expr.Error, err.Error())
				}
			case expr.Error != "":
				t.Errorf("test %d %q: expr %d: expected failure %q (got result %s)", i, test.Name, j, expr.Error, result)
			case result.String() != expr.Result:
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if out.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected output %q (got %q)", i, test.Name, j, expr.Output, out.String())
			}
		}
	}
}

// RunBenchmark runs a standard benchmark that evaluates expressions parsed
// from source.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	exprs, err := parser.NewReader().Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		ev := eval.New(eval.WithStdout(&bytes.Buffer{}))
		b.StartTimer()
		_, err := ev.EvalAll(context.Background(), exprs)
		b.StopTimer()
		if err != nil {
			b.Fatal(err)
		}
	}
}
