// Copyright © 2018 The ELPS authors

package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/luthersystems/skim/parser/token"
)

type LexFn func(*Lexer) *token.Token

const (
	miscWordRunes   = "0123456789" + miscWordSymbols
	miscWordSymbols = "!$%&*/:<=>?^_~+-."
)

type Lexer struct {
	scanner *token.Scanner
	lex     LexFn
}

func New(s *token.Scanner) *Lexer {
	lex := &Lexer{
		scanner: s,
		lex:     (*Lexer).readToken,
	}
	return lex
}

// ReadToken returns the next token in the stream.  Once the input is
// exhausted every call returns an EOF token.
func (lex *Lexer) ReadToken() *token.Token {
	return lex.lex(lex)
}

func (lex *Lexer) readToken() *token.Token {
	lex.skipWhitespace()
	if !lex.scanner.Accept(func(c rune) bool { return true }) {
		if lex.scanner.EOF() {
			return lex.emit(token.EOF, "")
		}
		// The next rune could not be decoded.
		err := lex.scanner.ScanRune()
		lex.scanner.Ignore()
		return lex.emit(token.ERROR, err.Error())
	}
	switch lex.scanner.Rune() {
	case '(', '[':
		return lex.emitText(token.PAREN_L)
	case ')', ']':
		return lex.emitText(token.PAREN_R)
	case '\'':
		return lex.emitText(token.QUOTE)
	case ';':
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
		return lex.emitText(token.COMMENT)
	case '#':
		return lex.readHash()
	case '"':
		return lex.readString()
	case '+', '-':
		if isDigit(lex.peekRune()) {
			return lex.readNumber()
		}
		return lex.readSymbol()
	default:
		if isDigit(lex.scanner.Rune()) {
			return lex.readNumber()
		}
		if isWordStart(lex.scanner.Rune()) {
			return lex.readSymbol()
		}
		return lex.emitText(token.INVALID)
	}
}

func (lex *Lexer) readHash() *token.Token {
	n := lex.scanner.AcceptSeq(unicode.IsLetter)
	if n == 0 {
		return lex.errorf("invalid dispatch macro character %q", lex.peekRune())
	}
	switch lex.scanner.Text() {
	case "#t", "#f", "#true", "#false":
		return lex.emitText(token.BOOL)
	default:
		return lex.emitText(token.INVALID)
	}
}

// UnterminatedString is the text of the ERROR token emitted when the input
// ends inside a string literal.
const UnterminatedString = "unterminated string literal"

// readString scans a string literal.  Literals may span lines.
func (lex *Lexer) readString() *token.Token {
	for {
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '"' && c != '\\' })
		if lex.scanner.AcceptRune('"') {
			return lex.emitText(token.STRING)
		}
		if lex.scanner.AcceptRune('\\') {
			// Wait until parsing to check the escaped character
			if lex.scanner.Accept(func(c rune) bool { return true }) {
				continue
			}
		}
		if lex.scanner.EOF() {
			return lex.emit(token.ERROR, UnterminatedString)
		}
		return lex.errorf("invalid utf-8 sequence in string literal")
	}
}

func (lex *Lexer) readSymbol() *token.Token {
	lex.scanner.AcceptSeq(isWord)
	return lex.emitText(token.SYMBOL)
}

func (lex *Lexer) readNumber() *token.Token {
	lex.scanner.AcceptSeq(isDigit)
	typ := token.INT
	if lex.scanner.AcceptRune('.') {
		typ = token.FLOAT
		lex.scanner.AcceptSeq(isDigit)
	}
	if lex.scanner.Accept(func(c rune) bool { return c == 'e' || c == 'E' }) {
		typ = token.FLOAT
		lex.scanner.Accept(func(c rune) bool { return c == '+' || c == '-' })
		if lex.scanner.AcceptSeq(isDigit) == 0 {
			return lex.errorf("invalid floating point literal starting: %v", lex.scanner.Text())
		}
	}
	if isWord(lex.peekRune()) {
		// Identifiers like 1+ start with a digit.
		return lex.readSymbol()
	}
	// the returned string may not actually be a usable number (overflow), but
	// we can find that out at parse time -- not scan time.
	return lex.emitText(typ)
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitText(typ token.Type) *token.Token {
	return lex.scanner.EmitToken(typ)
}

func (lex *Lexer) errorf(format string, v ...interface{}) *token.Token {
	return lex.emit(token.ERROR, fmt.Sprintf(format, v...))
}

func (lex *Lexer) skipWhitespace() {
	if lex.scanner.AcceptSeqSpace() > 0 {
		lex.scanner.Ignore()
	}
}

func (lex *Lexer) peekRune() rune {
	r, _ := lex.scanner.Peek()
	return r
}

func isWordStart(c rune) bool {
	return unicode.IsLetter(c) || strings.ContainsRune(miscWordSymbols, c)
}

func isWord(c rune) bool {
	return unicode.IsLetter(c) || strings.ContainsRune(miscWordRunes, c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
