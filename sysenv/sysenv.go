// Copyright © 2024 The ELPS authors

// Package sysenv reads process environment variables and reports lookup
// failures as *VarError values.
package sysenv

import (
	"os"
	"unicode/utf8"

	"github.com/joho/godotenv"
)

// Reason classifies an environment variable lookup failure.
type Reason uint

const (
	// NotPresent means the variable is not set.
	NotPresent Reason = iota
	// NotUnicode means the variable is set but its value is not valid UTF-8.
	NotUnicode
)

// VarError is returned when an environment variable cannot be read.
type VarError struct {
	Name   string
	Reason Reason
}

func (e *VarError) Error() string {
	if e.Reason == NotUnicode {
		return "environment variable was not valid unicode: " + e.Name
	}
	return "environment variable not found: " + e.Name
}

// Lookup returns the value of the environment variable name.  Unset
// variables and values which are not valid UTF-8 produce a *VarError.
func Lookup(name string) (string, error) {
	val, ok := os.LookupEnv(name)
	if !ok {
		return "", &VarError{Name: name, Reason: NotPresent}
	}
	if !utf8.ValidString(val) {
		return "", &VarError{Name: name, Reason: NotUnicode}
	}
	return val, nil
}

// Load reads variables from dotenv files into the process environment.
// Variables already present in the environment are not overwritten.  Errors
// opening or parsing a file are returned unmodified.
func Load(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	return godotenv.Load(paths...)
}
