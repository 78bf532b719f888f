// Copyright © 2018 The ELPS authors

package lisptest

import (
	"bytes"
	"io"
	"testing"

	"github.com/hashicorp/go-hclog"
)

// Logger is an io.Writer which logs each line written to it with t.Log.
type Logger struct {
	t   testing.TB
	buf []byte
}

var _ io.Writer = (*Logger)(nil)

// NewLogger returns a Logger for t.  Any unterminated line is logged when the
// test finishes.
func NewLogger(t testing.TB) *Logger {
	log := &Logger{t: t}
	t.Cleanup(log.Flush)
	return log
}

func (log *Logger) Write(b []byte) (int, error) {
	log.buf = append(log.buf, b...)
	for {
		i := bytes.Index(log.buf, []byte("\n"))
		if i < 0 {
			return len(b), nil
		}
		log.t.Log(string(log.buf[:i]))
		log.buf = log.buf[i+1:]
	}
}

// Flush logs buffered text which is not terminated by a newline.
func (log *Logger) Flush() {
	if len(log.buf) == 0 {
		return
	}
	log.t.Log(string(log.buf))
	log.buf = nil
}

// NewHCLogger returns a debug level hclog.Logger writing to t.  Timestamps
// are omitted, t.Log records its own.
func NewHCLogger(t testing.TB) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:        t.Name(),
		Level:       hclog.Debug,
		Output:      NewLogger(t),
		DisableTime: true,
	})
}
