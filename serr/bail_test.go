// Copyright © 2024 The ELPS authors

package serr

import (
	"testing"

	"github.com/luthersystems/skim/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	assert.Equal(t, NewGeneric("msg"), New("msg"))
	assert.Equal(t, NewGeneric("bad 5"), Errorf("bad %d", 5))
	assert.Equal(t, "Unbound variable: x", Render(Unbound("x")))
	assert.Equal(t, "Expected an identifer, found: 12", Render(IdentifierNotFound("12")))
	assert.Equal(t, "Expected an expression, found: (if)", Render(ExpressionNotFound("(if)")))
	assert.Equal(t, KindGeneric, IdentifierNotFound("12").Kind())
	assert.Equal(t, KindGeneric, ExpressionNotFound("12").Kind())
}

func TestUnexpectedCopiesExpression(t *testing.T) {
	x := lisp.SExpr([]*lisp.LVal{lisp.Symbol("lambda"), lisp.Int(1)})
	e := Unexpected(x)
	assert.Equal(t, NewUnexpectedForm(x), e)
	x.Cells[1].Int = 2
	assert.Equal(t, "Expression is in unexpected form: (lambda 1)", Render(e))
	assert.Equal(t, "(lambda 2)", x.String())
}

func divide(a, b int) (int, error) {
	if b == 0 {
		return Fail[int](KindDivisionByZero)
	}
	return a / b, nil
}

func TestFail(t *testing.T) {
	n, err := divide(6, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = divide(1, 0)
	assert.Equal(t, 0, n)
	assert.Equal(t, NewDivisionByZero(), err)

	x, err := Fail[*lisp.LVal](KindFoundNothing)
	assert.Nil(t, x)
	assert.Equal(t, NewFoundNothing(), err)

	_, err = Fail[string](KindEnvNotFound)
	assert.Equal(t, NewEnvNotFound(), err)

	assert.Panics(t, func() {
		_, _ = Fail[int](KindUnboundVar)
	})
}

type message string

func TestBail(t *testing.T) {
	x, err := Bail[*lisp.LVal]("plain message")
	assert.Nil(t, x)
	assert.Equal(t, NewGeneric("plain message"), err)

	computed := message("computed")
	_, err = Bail[int](computed)
	assert.Equal(t, NewGeneric("computed"), err)
}

func TestBailf(t *testing.T) {
	s, err := Bailf[string]("bad %v", 5)
	assert.Equal(t, "", s)
	assert.Equal(t, NewGeneric("bad 5"), err)
	assert.Equal(t, "bad 5", err.Error())
}

func TestBailWith(t *testing.T) {
	tests := []Error{
		NewWrongArgCount(2, 3),
		NewUnboundVar("x"),
		NewTypeMismatch("integer", lisp.String("s")),
		NewWrongPort("read-line", "output"),
	}
	for _, want := range tests {
		x, err := BailWith[*lisp.LVal](want)
		assert.Nil(t, x)
		got, ok := As(err)
		require.True(t, ok)
		assert.Equal(t, want, got)
		assert.Equal(t, want.Kind(), got.Kind())
		assert.Equal(t, Render(want), Render(got))
	}
}
