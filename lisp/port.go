// Copyright © 2018 The ELPS authors

package lisp

import (
	"bufio"
	"io"
	"strings"
)

// PortKind distinguishes input ports from output ports.
type PortKind uint

const (
	InputPort PortKind = iota
	OutputPort
)

func (k PortKind) String() string {
	if k == OutputPort {
		return "output"
	}
	return "input"
}

// Port is a buffered character stream.  A Port is either readable or
// writable, never both.
type Port struct {
	Name   string
	Kind   PortKind
	Closed bool

	r      *bufio.Reader
	w      *bufio.Writer
	closer io.Closer
}

// NewInputPort returns a port reading from r.  If r implements io.Closer it
// is closed with the port.
func NewInputPort(name string, r io.Reader) *Port {
	p := &Port{Name: name, Kind: InputPort, r: bufio.NewReader(r)}
	p.closer, _ = r.(io.Closer)
	return p
}

// NewOutputPort returns a port writing to w.  If w implements io.Closer it is
// closed with the port.
func NewOutputPort(name string, w io.Writer) *Port {
	p := &Port{Name: name, Kind: OutputPort, w: bufio.NewWriter(w)}
	p.closer, _ = w.(io.Closer)
	return p
}

// PortVal returns an LVal holding p.
func PortVal(p *Port) *LVal {
	return &LVal{Type: LPort, Native: p}
}

// ReadLine reads the next line from an input port without its line
// terminator.  At the end of the stream ReadLine returns io.EOF.
func (p *Port) ReadLine() (string, error) {
	line, err := p.r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// WriteString writes s to an output port and flushes it.
func (p *Port) WriteString(s string) error {
	if _, err := p.w.WriteString(s); err != nil {
		return err
	}
	return p.w.Flush()
}

// Close flushes and closes the underlying stream.  Closing a port twice is
// not an error.
func (p *Port) Close() error {
	if p.Closed {
		return nil
	}
	p.Closed = true
	if p.w != nil {
		if err := p.w.Flush(); err != nil {
			return err
		}
	}
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}
