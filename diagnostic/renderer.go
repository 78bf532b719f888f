// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

// tabWidth is the number of spaces a tab expands to in source snippets.
const tabWidth = 4

// notePrefix is the width of "   = note: ".
const notePrefix = 11

// Renderer formats diagnostics as Rust-style annotated source snippets.
// Columns in spans count runes and are displayed by their terminal width.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)

	// Width is the column at which notes are wrapped. Zero disables
	// wrapping.
	Width int

	sources map[string][]string
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	r.writeHeader(ew, d, p)
	for _, span := range d.Spans {
		r.writeSpan(ew, span, p)
	}
	for _, note := range d.Notes {
		ew.printf("   %s=%s note: %s\n", p.boldCyan, p.reset, r.wrapNote(note))
	}

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// errWriter wraps a writer and captures the first error, short-circuiting
// subsequent writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (r *Renderer) writeHeader(ew *errWriter, d Diagnostic, p palette) {
	sevColor := p.boldRed
	switch d.Severity {
	case SeverityWarning:
		sevColor = p.yellow
	case SeverityNote:
		sevColor = p.boldCyan
	}
	ew.printf("%s%s%s%s: %s%s%s\n",
		sevColor, p.bold, d.Severity, p.reset,
		p.bold, d.Message, p.reset)
}

func (r *Renderer) writeSpan(ew *errWriter, span Span, p palette) {
	// Location line: "  --> file:line:col"
	loc := span.File
	if span.Line > 0 {
		loc += ":" + strconv.Itoa(span.Line)
		if span.Col > 0 {
			loc += ":" + strconv.Itoa(span.Col)
		}
	}
	ew.printf("  %s-->%s %s\n", p.boldBlue, p.reset, loc)

	source, ok := r.sourceLine(span.File, span.Line)
	if !ok {
		ew.printf("   %s|%s\n", p.boldBlue, p.reset)
		return
	}

	lineStr := strconv.Itoa(span.Line)
	gutter := fmt.Sprintf(" %s%s |%s", p.boldBlue, strings.Repeat(" ", len(lineStr)), p.reset)
	runes := []rune(source)

	col := span.Col
	if col <= 0 || col > len(runes)+1 {
		col = 1
	}
	endCol := span.EndCol
	if endCol <= 0 {
		endCol = detectEndCol(runes, col)
	}
	if endCol < col {
		endCol = col
	}
	if endCol > len(runes) && len(runes) >= col {
		endCol = len(runes)
	}

	ew.printf("%s\n", gutter)
	ew.printf(" %s%s |%s  %s\n", p.boldBlue, lineStr, p.reset, expandTabs(source))

	indent := displayWidth(runes[:col-1])
	underLen := 1
	if col <= len(runes) {
		underLen = displayWidth(runes[col-1 : endCol])
	}
	if underLen < 1 {
		underLen = 1
	}
	ew.printf("%s  %s%s%s%s", gutter, strings.Repeat(" ", indent),
		p.boldRed, strings.Repeat("^", underLen), p.reset)
	if span.Label != "" {
		ew.printf(" %s%s%s", p.boldRed, span.Label, p.reset)
	}
	ew.printf("\n%s\n", gutter)
}

// wrapNote wraps a note to r.Width, indenting continuation lines to align
// with the first.
func (r *Renderer) wrapNote(note string) string {
	if r.Width <= notePrefix {
		return note
	}
	wrapped := wordwrap.String(note, r.Width-notePrefix)
	return strings.ReplaceAll(wrapped, "\n", "\n"+strings.Repeat(" ", notePrefix))
}

// sourceLine returns line number line of file.  Files are read once per
// Renderer.
func (r *Renderer) sourceLine(file string, line int) (string, bool) {
	if line <= 0 || file == "" {
		return "", false
	}
	lines, ok := r.sources[file]
	if !ok {
		lines = r.readLines(file)
		if r.sources == nil {
			r.sources = make(map[string][]string)
		}
		r.sources[file] = lines
	}
	if line > len(lines) {
		return "", false
	}
	return lines[line-1], true
}

func (r *Renderer) readLines(file string) []string {
	reader := r.SourceReader
	if reader == nil {
		reader = func(name string) ([]byte, error) {
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		}
	}
	data, err := reader(file)
	if err != nil {
		return nil
	}
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	return lines
}

// detectEndCol finds the last column of the token starting at col.  A string
// literal extends to its closing quote.
func detectEndCol(runes []rune, col int) int {
	if col > len(runes) {
		return col
	}
	start := col - 1
	if runes[start] == '"' {
		for i := start + 1; i < len(runes); i++ {
			switch runes[i] {
			case '\\':
				i++
			case '"':
				return i + 1
			}
		}
		return len(runes)
	}
	end := start
	for end < len(runes) && !isDelimiter(runes[end]) {
		end++
	}
	if end == start {
		return col // single character
	}
	return end
}

func isDelimiter(ch rune) bool {
	switch ch {
	case ' ', '\t', '(', ')', '[', ']', '\'', '"', ';':
		return true
	}
	return false
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// displayWidth returns the terminal width of runes, expanding tabs.
func displayWidth(runes []rune) int {
	w := 0
	for _, ch := range runes {
		if ch == '\t' {
			w += tabWidth
		} else {
			w += runewidth.RuneWidth(ch)
		}
	}
	return w
}

// fileFromWriter attempts to extract an *os.File from a writer for terminal
// detection. Returns nil if the writer is not backed by a file.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
