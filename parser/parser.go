// Copyright © 2018 The ELPS authors

// Package parser reads source text into lisp expressions.  Every failure it
// returns is a serr.Error.
package parser

import (
	"io"
	"strconv"
	"strings"

	"github.com/luthersystems/skim/lisp"
	"github.com/luthersystems/skim/parser/lexer"
	"github.com/luthersystems/skim/parser/token"
	"github.com/luthersystems/skim/serr"
)

// Reader reads a program from a stream.
type Reader struct {
	path string
}

// NewReader returns a Reader.
func NewReader() *Reader {
	return &Reader{}
}

// WithPath returns a Reader that records path as the physical location of
// everything it reads.
func (r *Reader) WithPath(path string) *Reader {
	return &Reader{path: path}
}

// Read parses every expression in stream.  The name is used for source
// locations.  A failure reading stream is reported as serr.IOErr.
func (r *Reader) Read(name string, stream io.Reader) ([]*lisp.LVal, error) {
	s := token.NewScanner(name, stream)
	if err := s.Err(); err != nil {
		return nil, serr.IO(err)
	}
	if r.path != "" {
		s.SetPath(r.path)
	}
	return New(s).ParseProgram()
}

// Incomplete returns true if err indicates the input ended before the last
// expression was finished, so more input could complete it.
func Incomplete(err error) bool {
	e, ok := serr.As(err)
	if !ok {
		return false
	}
	switch e := e.(type) {
	case serr.FoundNothing:
		return true
	case serr.NotExpectedToken:
		return e.Found != nil && e.Found.Type == token.EOF
	case serr.UnexpectedToken:
		return e.Token != nil && e.Token.Type == token.ERROR && e.Token.Text == lexer.UnterminatedString
	}
	return false
}

// Parser is a recursive descent lisp parser.
type Parser struct {
	src *TokenSource
}

// NewFromSource initializes and returns a Parser that reads tokens from src.
func NewFromSource(src *TokenSource) *Parser {
	return &Parser{
		src: src,
	}
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return NewFromSource(NewTokenSource(scanner))
}

// Parse is similar to ParseExpression but returns io.EOF if the stream ends
// before an expression begins.
func (p *Parser) Parse() (*lisp.LVal, error) {
	p.ignoreComments()
	if p.src.IsEOF() {
		return nil, io.EOF
	}
	return p.ParseExpression()
}

// ParseProgram parses expressions until the end of the stream.
func (p *Parser) ParseProgram() ([]*lisp.LVal, error) {
	var exprs []*lisp.LVal
	for {
		expr, err := p.Parse()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// ParseExpression parses a single expression.  Unlike Parse, ParseExpression
// requires an expression to be present and reports serr.FoundNothing at the
// end of the stream.
func (p *Parser) ParseExpression() (*lisp.LVal, error) {
	p.ignoreComments()
	switch p.PeekType() {
	case token.INT:
		return p.ParseLiteralInt()
	case token.FLOAT:
		return p.ParseLiteralFloat()
	case token.STRING:
		return p.ParseLiteralString()
	case token.BOOL:
		return p.ParseLiteralBool()
	case token.QUOTE:
		return p.ParseQuote()
	case token.SYMBOL:
		return p.ParseSymbol()
	case token.PAREN_L:
		return p.ParseConsExpression()
	case token.EOF:
		return serr.Fail[*lisp.LVal](serr.KindFoundNothing)
	default:
		// Closing parens, scan errors and invalid characters.
		return serr.BailWith[*lisp.LVal](serr.NewUnexpectedToken(p.ReadToken()))
	}
}

func (p *Parser) ParseLiteralInt() (*lisp.LVal, error) {
	tok := p.ReadToken()
	x, err := strconv.Atoi(tok.Text)
	if err != nil {
		return p.castError("integer", tok)
	}
	return p.tokenLVal(lisp.Int(x)), nil
}

func (p *Parser) ParseLiteralFloat() (*lisp.LVal, error) {
	tok := p.ReadToken()
	x, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil {
		return p.castError("real", tok)
	}
	return p.tokenLVal(lisp.Float(x)), nil
}

func (p *Parser) ParseLiteralString() (*lisp.LVal, error) {
	tok := p.ReadToken()
	s, ok := unescapeString(tok.Text)
	if !ok {
		// Unsupported escape sequence.
		return serr.BailWith[*lisp.LVal](serr.NewUnexpectedToken(tok))
	}
	return p.tokenLVal(lisp.String(s)), nil
}

// unescapeString returns the value of the quoted string literal lit.  The
// escapes \\ \" \n \t and \r are recognized, any other is
// invalid.  Line breaks in lit are kept.
func unescapeString(lit string) (string, bool) {
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return "", false
	}
	body := lit[1 : len(lit)-1]
	var buf strings.Builder
	buf.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			buf.WriteByte(c)
			continue
		}
		i++
		if i == len(body) {
			return "", false
		}
		switch body[i] {
		case '\\', '"':
			buf.WriteByte(body[i])
		case 'n':
			buf.WriteByte('\n')
		case 't':
			buf.WriteByte('\t')
		case 'r':
			buf.WriteByte('\r')
		default:
			return "", false
		}
	}
	return buf.String(), true
}

func (p *Parser) ParseLiteralBool() (*lisp.LVal, error) {
	tok := p.ReadToken()
	return p.tokenLVal(lisp.Bool(tok.Text == "#t" || tok.Text == "#true")), nil
}

func (p *Parser) ParseQuote() (*lisp.LVal, error) {
	p.ReadToken()
	loc := p.Location()
	x, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	q := lisp.Quote(x)
	q.Source = loc
	return q, nil
}

func (p *Parser) ParseSymbol() (*lisp.LVal, error) {
	tok := p.ReadToken()
	return p.tokenLVal(lisp.Symbol(tok.Text)), nil
}

// ParseConsExpression parses a parenthesized list.  Lists opened with '['
// must be closed with ']'.
func (p *Parser) ParseConsExpression() (*lisp.LVal, error) {
	open := p.ReadToken()
	expr := p.tokenLVal(lisp.SExpr(nil))
	closing := &token.Token{Type: token.PAREN_R, Text: ")"}
	if open.Text == "[" {
		closing.Text = "]"
	}
	for {
		p.ignoreComments()
		next := p.src.Peek()
		if next.Type == token.EOF {
			return serr.BailWith[*lisp.LVal](serr.NewNotExpectedToken(closing, next))
		}
		if next.Type == token.PAREN_R {
			p.ReadToken()
			if next.Text != closing.Text {
				return serr.BailWith[*lisp.LVal](serr.NewNotExpectedToken(closing, next))
			}
			break
		}
		x, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		expr.Cells = append(expr.Cells, x)
	}
	return expr, nil
}

func (p *Parser) ignoreComments() {
	for p.Accept(token.COMMENT) {
	}
}

// ReadToken consumes and returns the next token.
func (p *Parser) ReadToken() *token.Token {
	p.src.Scan()
	return p.src.Token
}

// Location returns the location of the last token read.
func (p *Parser) Location() *token.Location {
	return p.src.Token.Source
}

func (p *Parser) PeekType() token.Type {
	return p.src.Peek().Type
}

func (p *Parser) Accept(typ ...token.Type) bool {
	return p.src.AcceptType(typ...)
}

func (p *Parser) tokenLVal(v *lisp.LVal) *lisp.LVal {
	v.Source = p.Location()
	return v
}

func (p *Parser) castError(typ string, tok *token.Token) (*lisp.LVal, error) {
	lit := lisp.String(tok.Text)
	lit.Source = tok.Source
	return serr.BailWith[*lisp.LVal](serr.NewCast(typ, lit))
}
