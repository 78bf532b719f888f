// Copyright © 2024 The ELPS authors

// Package diagnostic renders failures as annotated source snippets for the
// skim command line.  Diagnostics are built from serr.Error values with
// FromError and do not depend on the evaluator.
package diagnostic

import "fmt"

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

var severityStrings = []string{
	SeverityError:   "error",
	SeverityWarning: "warning",
	SeverityNote:    "note",
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityStrings) {
		return "unknown"
	}
	return severityStrings[s]
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = auto-detect from source)
	Label  string // text shown under the underline
}

// Diagnostic represents a single error, warning, or note with optional
// source annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string // "= note:" lines
}

// Summary returns a single line describing d, prefixed by the location of its
// first span.
func (d Diagnostic) Summary() string {
	msg := d.Severity.String() + ": " + d.Message
	if len(d.Spans) == 0 {
		return msg
	}
	span := d.Spans[0]
	switch {
	case span.Line <= 0:
		return fmt.Sprintf("%s: %s", span.File, msg)
	case span.Col <= 0:
		return fmt.Sprintf("%s:%d: %s", span.File, span.Line, msg)
	default:
		return fmt.Sprintf("%s:%d:%d: %s", span.File, span.Line, span.Col, msg)
	}
}
