// Copyright © 2018 The ELPS authors

package eval

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/luthersystems/skim/lisp"
	"github.com/luthersystems/skim/serr"
)

// portArg returns the port argument of proc at index i, or def when the
// argument was omitted.  The port must be of the given kind.
func portArg(proc string, kind lisp.PortKind, args []*lisp.LVal, i int, def *lisp.Port) (*lisp.Port, error) {
	if i >= len(args) {
		return def, nil
	}
	if err := requireType(lisp.LPort, args[i]); err != nil {
		return nil, err
	}
	p := args[i].Port()
	if p.Kind != kind {
		return nil, serr.NewWrongPort(proc, p.Kind.String())
	}
	if p.Closed {
		return nil, serr.IO(fs.ErrClosed)
	}
	return p, nil
}

func (ev *Evaluator) write(proc string, s string, args []*lisp.LVal, i int) (*lisp.LVal, error) {
	p, err := portArg(proc, lisp.OutputPort, args, i, ev.out)
	if err != nil {
		return nil, err
	}
	if err := p.WriteString(s); err != nil {
		return nil, serr.IO(err)
	}
	return lisp.Unspecified(), nil
}

// (display x [port])
func (ev *Evaluator) builtinDisplay(args []*lisp.LVal) (*lisp.LVal, error) {
	return ev.write("display", displayString(args[0]), args, 1)
}

// (newline [port])
func (ev *Evaluator) builtinNewline(args []*lisp.LVal) (*lisp.LVal, error) {
	return ev.write("newline", "\n", args, 0)
}

// (write-string s [port])
func (ev *Evaluator) builtinWriteString(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireType(lisp.LString, args[0]); err != nil {
		return nil, err
	}
	return ev.write("write-string", args[0].Str, args, 1)
}

// (read-line [port])
func (ev *Evaluator) builtinReadLine(args []*lisp.LVal) (*lisp.LVal, error) {
	p, err := portArg("read-line", lisp.InputPort, args, 0, ev.in)
	if err != nil {
		return nil, err
	}
	line, err := p.ReadLine()
	if errors.Is(err, io.EOF) {
		return lisp.EOF(), nil
	}
	if err != nil {
		return nil, serr.IO(err)
	}
	return lisp.String(line), nil
}

func builtinOpenInputFile(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireType(lisp.LString, args[0]); err != nil {
		return nil, err
	}
	f, err := os.Open(args[0].Str)
	if err != nil {
		return nil, serr.IO(err)
	}
	return lisp.PortVal(lisp.NewInputPort(args[0].Str, f)), nil
}

func builtinOpenOutputFile(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireType(lisp.LString, args[0]); err != nil {
		return nil, err
	}
	f, err := os.Create(args[0].Str)
	if err != nil {
		return nil, serr.IO(err)
	}
	return lisp.PortVal(lisp.NewOutputPort(args[0].Str, f)), nil
}

func builtinClosePort(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireType(lisp.LPort, args[0]); err != nil {
		return nil, err
	}
	if err := args[0].Port().Close(); err != nil {
		return nil, serr.IO(err)
	}
	return lisp.Unspecified(), nil
}
