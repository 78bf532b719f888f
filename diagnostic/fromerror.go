// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/skim/parser/token"
	"github.com/luthersystems/skim/serr"
)

// FromError builds an error diagnostic for err.  When err holds a serr.Error
// the message is its rendered text and the span covers the token or
// expression it carries.  When verbose is true the failure's category is
// added as a note.
func FromError(err error, verbose bool) Diagnostic {
	e, ok := serr.As(err)
	if !ok {
		return Diagnostic{Severity: SeverityError, Message: err.Error()}
	}
	d := Diagnostic{
		Severity: SeverityError,
		Message:  serr.Render(e),
	}
	if loc := serr.Source(e); loc != nil {
		d.Spans = []Span{spanOf(e, loc)}
	}
	if verbose {
		d.Notes = append(d.Notes, "category: "+serr.Category(e))
	}
	return d
}

func spanOf(e serr.Error, loc *token.Location) Span {
	span := Span{
		File: loc.File,
		Line: loc.Line,
		Col:  loc.Col,
	}
	if loc.Path != "" {
		span.File = loc.Path
	}
	if tok := failedToken(e); tok != nil && tok.Text != "" && !strings.Contains(tok.Text, "\n") {
		span.EndCol = loc.Col + utf8.RuneCountInString(tok.Text) - 1
	}
	if e.Kind() != serr.KindGeneric {
		span.Label = strings.ToLower(strings.TrimSuffix(serr.Category(e), "."))
	}
	return span
}

func failedToken(e serr.Error) *token.Token {
	switch e := e.(type) {
	case serr.UnexpectedToken:
		if e.Token.Type == token.ERROR {
			// The text is a description of the problem.
			return nil
		}
		return e.Token
	case serr.NotExpectedToken:
		return e.Found
	}
	return nil
}
