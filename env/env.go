// Copyright © 2018 The ELPS authors

// Package env implements lexical scopes.
package env

import (
	"sort"

	"github.com/luthersystems/skim/lisp"
	"github.com/luthersystems/skim/serr"
)

// Env is a lexical scope.  Lookups that miss in an Env continue in its
// Parent.  An Env is not safe for concurrent use.
type Env struct {
	Scope  map[string]*lisp.LVal
	Parent *Env
}

// New returns an empty Env whose lookups fall back to parent.  The global
// environment has a nil parent.
func New(parent *Env) *Env {
	return NewN(parent, 0)
}

// NewN is like New but sizes the scope to hold n bindings.  Callers that know
// the number of bindings up front (let, procedure calls) use NewN.
func NewN(parent *Env, n int) *Env {
	return &Env{
		Scope:  make(map[string]*lisp.LVal, n),
		Parent: parent,
	}
}

// Define binds name to v in env, shadowing any binding in a parent scope and
// replacing any existing binding in env.
func (env *Env) Define(name string, v *lisp.LVal) {
	env.Scope[name] = v
}

// Lookup returns the value bound to name in the innermost scope which binds
// it.  Lookup returns serr.UnboundVar when no scope binds name.
func (env *Env) Lookup(name string) (*lisp.LVal, error) {
	for e := env; e != nil; e = e.Parent {
		if v, ok := e.Scope[name]; ok {
			return v, nil
		}
	}
	return serr.BailWith[*lisp.LVal](serr.Unbound(name))
}

// Find returns the innermost scope which binds name.  Find returns
// serr.EnvNotFound when no scope binds name.
func (env *Env) Find(name string) (*Env, error) {
	for e := env; e != nil; e = e.Parent {
		if _, ok := e.Scope[name]; ok {
			return e, nil
		}
	}
	return serr.Fail[*Env](serr.KindEnvNotFound)
}

// Set rebinds name in the innermost scope which binds it.  Unlike Define, Set
// never creates a binding and returns serr.EnvNotFound for unbound names.
func (env *Env) Set(name string, v *lisp.LVal) error {
	e, err := env.Find(name)
	if err != nil {
		return err
	}
	e.Scope[name] = v
	return nil
}

// Root returns the global environment.
func (env *Env) Root() *Env {
	e := env
	for e.Parent != nil {
		e = e.Parent
	}
	return e
}

// Names returns the sorted names visible from env, each listed once.
func (env *Env) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for e := env; e != nil; e = e.Parent {
		for name := range e.Scope {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
