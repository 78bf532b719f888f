// Copyright © 2018 The ELPS authors

package repl

import (
	"sort"
	"strings"

	"github.com/luthersystems/skim/env"
	"github.com/luthersystems/skim/eval"
)

// symbolCompleter implements readline.AutoCompleter.  Candidates are the
// names bound in env, including those of enclosing scopes, and the special
// form keywords.
type symbolCompleter struct {
	env *env.Env
}

// Do returns the suffixes completing the symbol which ends at pos, and the
// length of the part already typed.
func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	prefix := symbolPrefix(line[:pos])
	if prefix == "" {
		return nil, 0
	}
	var suffixes [][]rune
	for _, name := range c.candidates(prefix) {
		suffixes = append(suffixes, []rune(name[len(prefix):]))
	}
	if len(suffixes) == 0 {
		return nil, 0
	}
	return suffixes, len([]rune(prefix))
}

func (c *symbolCompleter) candidates(prefix string) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, name := range c.env.Names() {
		add(name)
	}
	for _, name := range eval.SpecialForms {
		add(name)
	}
	sort.Strings(names)
	return names
}

// symbolPrefix returns the trailing part of typed that can belong to a
// symbol.
func symbolPrefix(typed []rune) string {
	start := len(typed)
	for start > 0 && !isSymbolBoundary(typed[start-1]) {
		start--
	}
	return string(typed[start:])
}

func isSymbolBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '(', ')', '[', ']', '\'', '"':
		return true
	}
	return false
}
