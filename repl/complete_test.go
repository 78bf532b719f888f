// Copyright © 2018 The ELPS authors

package repl

import (
	"testing"

	"github.com/luthersystems/skim/eval"
	"github.com/luthersystems/skim/lisp"
	"github.com/stretchr/testify/assert"
)

func TestSymbolCompleter(t *testing.T) {
	ev := eval.New()
	ev.Global.Define("defaults", lisp.Int(1))

	c := &symbolCompleter{env: ev.Global}

	// "de" should match define and user bindings.
	candidates, offset := c.Do([]rune("(de"), 3)
	assert.Equal(t, 2, offset)
	assert.Contains(t, candidates, []rune("fine"))
	assert.Contains(t, candidates, []rune("faults"))

	// "string-" should complete with the string builtins.
	candidates, offset = c.Do([]rune("(string-"), 8)
	assert.Equal(t, 7, offset)
	assert.Contains(t, candidates, []rune("length"))

	// Completion starts after a quote.
	candidates, offset = c.Do([]rune("'car"), 4)
	assert.Equal(t, 3, offset)
	assert.Contains(t, candidates, []rune(""))

	// "zzz-nonexistent" should have no completions.
	candidates, _ = c.Do([]rune("(zzz-nonexistent"), 16)
	assert.Empty(t, candidates)

	candidates, offset = c.Do([]rune("("), 1)
	assert.Empty(t, candidates)
	assert.Equal(t, 0, offset)
}

func TestSymbolPrefix(t *testing.T) {
	assert.Equal(t, "str", symbolPrefix([]rune("(display (str")))
	assert.Equal(t, "x", symbolPrefix([]rune("[x")))
	assert.Equal(t, "", symbolPrefix([]rune("(car ")))
	assert.Equal(t, "λ", symbolPrefix([]rune("(λ")))
}
