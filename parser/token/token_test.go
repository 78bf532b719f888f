// Copyright © 2018 The ELPS authors

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	used := make(map[string]bool)
	for tok := Type(0); tok < numTokenTypes; tok++ {
		str := tok.String()
		t.Log(str)
		if str == "" {
			t.Errorf("token type %x has empty string value", tok)
			continue
		}
		if used[str] {
			t.Errorf("token type string used twice: %v", tok)
		}
		used[str] = true
	}
	assert.Equal(t, "invalid", numTokenTypes.String())
}

func TestTokenString(t *testing.T) {
	assert.Equal(t, "abc", (&Token{Type: SYMBOL, Text: "abc"}).String())
	assert.Equal(t, "EOF", (&Token{Type: EOF}).String())
	assert.Equal(t, ")", (&Token{Type: PAREN_R, Text: ")"}).String())
	var tok *Token
	assert.Equal(t, "nothing", tok.String())
}

func TestTokenCopy(t *testing.T) {
	tok := &Token{
		Type:   SYMBOL,
		Text:   "x",
		Source: &Location{File: "test", Line: 1, Col: 2},
	}
	cp := tok.Copy()
	assert.Equal(t, tok, cp)
	cp.Text = "y"
	cp.Source.Line = 5
	assert.Equal(t, "x", tok.Text)
	assert.Equal(t, 1, tok.Source.Line)

	var nilTok *Token
	assert.Nil(t, nilTok.Copy())
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "test", (&Location{File: "test", Pos: -1}).String())
	assert.Equal(t, "test[3]", (&Location{File: "test", Pos: 3}).String())
	assert.Equal(t, "test:2", (&Location{File: "test", Pos: 3, Line: 2}).String())
	assert.Equal(t, "test:2:4", (&Location{File: "test", Pos: 3, Line: 2, Col: 4}).String())
}
