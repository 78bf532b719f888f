// Copyright © 2024 The ELPS authors

package eval_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/skim/eval"
	"github.com/luthersystems/skim/serr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePorts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	ev := eval.New(eval.WithStdout(&bytes.Buffer{}))
	ctx := context.Background()

	_, err := ev.LoadString(ctx, "write.scm", fmt.Sprintf(`
		(define out (open-output-file %q))
		(write-string "hello" out)
		(newline out)
		(display 42 out)
		(close-port out)
		(close-port out)
	`, path))
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n42", string(b))

	v, err := ev.LoadString(ctx, "read.scm", fmt.Sprintf(`
		(define in (open-input-file %q))
		(define first (read-line in))
		(define second (read-line in))
		(define third (read-line in))
		(list first second (eof-object? third) (eof-object? first))
	`, path))
	require.NoError(t, err)
	assert.Equal(t, `("hello" "42" #t #f)`, v.String())

	tests := []struct {
		expr string
		kind serr.Kind
		msg  string
	}{
		{"(read-line out)", serr.KindWrongPort, "Can't apply function `read-line` to a port type of output"},
		{`(write-string "x" in)`, serr.KindWrongPort, "Can't apply function `write-string` to a port type of input"},
		{"(display 1 in)", serr.KindWrongPort, "Can't apply function `display` to a port type of input"},
		{"(newline in)", serr.KindWrongPort, "Can't apply function `newline` to a port type of input"},
		{"(read-line 5)", serr.KindTypeMismatch, "Expected a port, found this: 5"},
		{"(close-port 5)", serr.KindTypeMismatch, "Expected a port, found this: 5"},
		{`(begin (close-port in) (read-line in))`, serr.KindIOErr, "file already closed"},
		{`(display "x" out)`, serr.KindIOErr, "file already closed"},
	}
	for _, test := range tests {
		_, err := ev.LoadString(ctx, "test", test.expr)
		e, ok := serr.As(err)
		if !assert.True(t, ok, test.expr) {
			continue
		}
		assert.Equal(t, test.kind, e.Kind(), test.expr)
		assert.Equal(t, test.msg, serr.Render(e), test.expr)
	}
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")
	_, osErr := os.Open(path)
	require.Error(t, osErr)

	ev := eval.New()
	_, err := ev.LoadString(context.Background(), "test", fmt.Sprintf("(open-input-file %q)", path))
	e, ok := serr.As(err)
	require.True(t, ok)
	assert.Equal(t, serr.KindIOErr, e.Kind())
	assert.Equal(t, osErr.Error(), serr.Render(e))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ev.LoadString(context.Background(), "test", fmt.Sprintf("(open-output-file %q)", filepath.Join(path, "sub", "x")))
	e, ok = serr.As(err)
	require.True(t, ok)
	assert.Equal(t, serr.KindIOErr, e.Kind())
}

func TestStandardStreams(t *testing.T) {
	var out bytes.Buffer
	ev := eval.New(
		eval.WithStdout(&out),
		eval.WithStdin(strings.NewReader("line one\nline two\n")),
	)
	v, err := ev.LoadString(context.Background(), "io.scm", `
		(display "a string")
		(newline)
		(display '(1 "two" three))
		(write-string "!")
		(list (read-line) (read-line) (eof-object? (read-line)))
	`)
	require.NoError(t, err)
	assert.Equal(t, "a string\n(1 \"two\" three)!", out.String())
	assert.Equal(t, `("line one" "line two" #t)`, v.String())
}
