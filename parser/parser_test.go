// Copyright © 2024 The ELPS authors

package parser

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/luthersystems/skim/lisp"
	"github.com/luthersystems/skim/parser/token"
	"github.com/luthersystems/skim/serr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func read(t *testing.T, src string) ([]*lisp.LVal, error) {
	t.Helper()
	return NewReader().Read("test.scm", strings.NewReader(src))
}

func TestRead(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"", nil},
		{"; only a comment\n", nil},
		{"42", []string{"42"}},
		{"-7 +3", []string{"-7", "3"}},
		{"1.5 2e3", []string{"1.5", "2000.0"}},
		{`"a\nb"`, []string{`"a\nb"`}},
		{"#t #f #true", []string{"#t", "#f", "#t"}},
		{"(+ 1 2)", []string{"(+ 1 2)"}},
		{"[let ((x 1)) x]", []string{"(let ((x 1)) x)"}},
		{"'x '(a b)", []string{"'x", "'(a b)"}},
		{"(a ; comment\n b)", []string{"(a b)"}},
		{"() (())", []string{"()", "(())"}},
		{"1+ car", []string{"1+", "car"}},
	}
	for _, test := range tests {
		exprs, err := read(t, test.src)
		if !assert.NoError(t, err, test.src) {
			continue
		}
		var got []string
		for _, x := range exprs {
			got = append(got, x.String())
		}
		assert.Equal(t, test.want, got, test.src)
	}
}

func TestReadSource(t *testing.T) {
	exprs, err := read(t, "\n  (define x\n    'y)")
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	x := exprs[0]
	require.NotNil(t, x.Source)
	assert.Equal(t, "test.scm", x.Source.File)
	assert.Equal(t, 2, x.Source.Line)
	assert.Equal(t, 3, x.Source.Col)
	q := x.Cells[2]
	assert.Equal(t, 3, q.Source.Line)
	assert.Equal(t, 5, q.Source.Col)

	exprs, err = NewReader().WithPath("/tmp/test.scm").Read("test.scm", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.scm", exprs[0].Source.Path)
}

func TestReadFailures(t *testing.T) {
	tests := []struct {
		src        string
		kind       serr.Kind
		msg        string
		incomplete bool
	}{
		{")", serr.KindUnexpectedToken, "Not expected this token: )", false},
		{"(a))", serr.KindUnexpectedToken, "Not expected this token: )", false},
		{"(a b", serr.KindNotExpectedToken, "Expected one of ), found EOF", true},
		{"[a (b c)", serr.KindNotExpectedToken, "Expected one of ], found EOF", true},
		{"(a b]", serr.KindNotExpectedToken, "Expected one of ), found ]", false},
		{"'", serr.KindFoundNothing, "Expected some expression or token, found nothing.", true},
		{"(a '", serr.KindFoundNothing, "Expected some expression or token, found nothing.", true},
		{"99999999999999999999", serr.KindCast, `Can't convert "99999999999999999999" to integer`, false},
		{`"abc`, serr.KindUnexpectedToken, "Not expected this token: unterminated string literal", true},
		{`(display "abc`, serr.KindUnexpectedToken, "Not expected this token: unterminated string literal", true},
		{"\"line one\nline two", serr.KindUnexpectedToken, "Not expected this token: unterminated string literal", true},
		{`"\x41"`, serr.KindUnexpectedToken, `Not expected this token: "\x41"`, false},
		{`"\u00e9"`, serr.KindUnexpectedToken, `Not expected this token: "\u00e9"`, false},
		{`"bell\a"`, serr.KindUnexpectedToken, `Not expected this token: "bell\a"`, false},
		{"{", serr.KindUnexpectedToken, "Not expected this token: {", false},
		{"#z", serr.KindUnexpectedToken, "Not expected this token: #z", false},
	}
	for _, test := range tests {
		exprs, err := read(t, test.src)
		assert.Nil(t, exprs, test.src)
		e, ok := serr.As(err)
		if !assert.True(t, ok, "%q: %v", test.src, err) {
			continue
		}
		assert.Equal(t, test.kind, e.Kind(), test.src)
		assert.Equal(t, test.msg, serr.Render(e), test.src)
		assert.Equal(t, test.incomplete, Incomplete(err), test.src)
	}
}

func TestReadStringLiteral(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"\"line one\nline two\"", "line one\nline two"},
		{"\"crlf\r\nkept\"", "crlf\r\nkept"},
		{`"tab\there"`, "tab\there"},
		{`"q\"uote\\"`, `q"uote\`},
		{`"cr\r"`, "cr\r"},
		{`"日本\n"`, "日本\n"},
		{`""`, ""},
	}
	for _, test := range tests {
		exprs, err := read(t, test.src)
		require.NoError(t, err, test.src)
		require.Len(t, exprs, 1, test.src)
		assert.Equal(t, lisp.LString, exprs[0].Type, test.src)
		assert.Equal(t, test.want, exprs[0].Str, test.src)
	}

	exprs, err := read(t, "(display \"a\nb\")\n(newline)")
	require.NoError(t, err)
	require.Len(t, exprs, 2)
	assert.Equal(t, 2, exprs[1].Source.Line)
}

func TestReadFailureLocation(t *testing.T) {
	_, err := read(t, "(a)\n  )")
	e, ok := serr.As(err)
	require.True(t, ok)
	loc := serr.Source(e)
	require.NotNil(t, loc)
	assert.Equal(t, 2, loc.Line)
	assert.Equal(t, 3, loc.Col)

	_, err = read(t, "(f 99999999999999999999)")
	e, ok = serr.As(err)
	require.True(t, ok)
	require.Equal(t, serr.KindCast, e.Kind())
	loc = serr.Source(e)
	require.NotNil(t, loc)
	assert.Equal(t, 4, loc.Col)
}

func TestReadIOError(t *testing.T) {
	cause := errors.New("device not ready")
	_, err := NewReader().Read("dev", iotest.ErrReader(cause))
	e, ok := serr.As(err)
	require.True(t, ok)
	assert.Equal(t, serr.KindIOErr, e.Kind())
	assert.Equal(t, "device not ready", serr.Render(e))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, Incomplete(err))
}

func TestIncomplete(t *testing.T) {
	assert.False(t, Incomplete(nil))
	assert.False(t, Incomplete(errors.New("other")))
	assert.True(t, Incomplete(serr.NewFoundNothing()))
	eof := &token.Token{Type: token.EOF}
	paren := &token.Token{Type: token.PAREN_R, Text: ")"}
	assert.True(t, Incomplete(serr.NewNotExpectedToken(paren, eof)))
	assert.False(t, Incomplete(serr.NewNotExpectedToken(paren, paren)))
	assert.False(t, Incomplete(serr.NewNotExpectedToken(paren, nil)))
}

func TestParse(t *testing.T) {
	p := New(token.NewScanner("test", strings.NewReader("a ; trailing")))
	x, err := p.Parse()
	require.NoError(t, err)
	assert.Equal(t, "a", x.String())
	_, err = p.Parse()
	assert.Equal(t, "EOF", err.Error())
}
