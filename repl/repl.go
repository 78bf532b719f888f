// Copyright © 2018 The ELPS authors

package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/skim/diagnostic"
	"github.com/luthersystems/skim/eval"
	"github.com/luthersystems/skim/lisp"
	"github.com/luthersystems/skim/parser"
)

// inputName is the file name given to source read by the REPL.
const inputName = "<stdin>"

type config struct {
	stdin    io.ReadCloser
	stderr   io.WriteCloser
	color    diagnostic.ColorMode
	verbose  bool
	history  string
	evalOpts []eval.Option
}

func newConfig(opts ...Option) *config {
	config := &config{
		history: historyPath(),
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.  Results, diagnostics
// and program output are all written to stderr.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithColor sets the color mode of rendered diagnostics.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithVerbose adds failure categories to rendered diagnostics.
func WithVerbose(verbose bool) Option {
	return func(c *config) {
		c.verbose = verbose
	}
}

// WithHistoryFile sets the file used to persist input history.  An empty
// path disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.history = path
	}
}

// WithEvalOptions configures the evaluator created by RunRepl.
func WithEvalOptions(opts ...eval.Option) Option {
	return func(c *config) {
		c.evalOpts = append(c.evalOpts, opts...)
	}
}

// RunRepl runs a repl in a new evaluator.  RunRepl returns when input is
// exhausted.
func RunRepl(ctx context.Context, prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	var out io.Writer = os.Stderr
	if cfg.stderr != nil {
		out = cfg.stderr
	}
	evalOpts := append([]eval.Option{eval.WithStdout(out)}, cfg.evalOpts...)
	ev := eval.New(evalOpts...)
	return RunEvaluator(ctx, ev, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunEvaluator runs a repl which evaluates input in the global environment of
// ev.  The cont prompt is shown while an expression spans multiple lines.
func RunEvaluator(ctx context.Context, ev *eval.Evaluator, prompt, cont string, opts ...Option) error {
	cfg := newConfig(opts...)
	var out io.Writer = os.Stderr
	if cfg.stderr != nil {
		out = cfg.stderr
	}
	ensureHistoryFilePermissions(cfg.history)

	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       cfg.history,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: ev.Global},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	s := &session{
		ev:       ev,
		out:      out,
		reader:   parser.NewReader(),
		renderer: &diagnostic.Renderer{Color: cfg.color},
		verbose:  cfg.verbose,
	}
	s.renderer.SourceReader = s.source
	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			s.buf.Reset()
			rl.SetPrompt(prompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			if strings.TrimSpace(s.buf.String()) != "" {
				// Report the unfinished expression.
				s.eval(ctx, true)
			}
			return nil
		}
		if err != nil {
			return err
		}
		if s.buf.Len() == 0 && strings.TrimSpace(line) == "" {
			continue
		}
		s.buf.WriteString(line)
		s.buf.WriteString("\n")
		if s.eval(ctx, false) {
			rl.SetPrompt(cont)
			continue
		}
		rl.SetPrompt(prompt)
	}
}

// session holds the input of the expression being read.
type session struct {
	ev       *eval.Evaluator
	out      io.Writer
	reader   *parser.Reader
	renderer *diagnostic.Renderer
	verbose  bool
	buf      strings.Builder
	last     string
}

// eval reads and evaluates buffered input.  It returns true, keeping the
// input buffered, when the input is an unfinished expression and more input
// may follow.
func (s *session) eval(ctx context.Context, final bool) bool {
	src := s.buf.String()
	exprs, err := s.reader.Read(inputName, strings.NewReader(src))
	if err != nil && !final && parser.Incomplete(err) {
		return true
	}
	s.buf.Reset()
	s.last = src
	if err != nil {
		s.renderError(err)
		return false
	}
	for _, x := range exprs {
		v, err := s.ev.EvalAll(ctx, []*lisp.LVal{x})
		if err != nil {
			s.renderError(err)
			return false
		}
		if v.Type != lisp.LUnspecified {
			fmt.Fprintln(s.out, v) //nolint:errcheck // best-effort REPL output
		}
	}
	return false
}

func (s *session) renderError(err error) {
	_ = s.renderer.Render(s.out, diagnostic.FromError(err, s.verbose))
}

// source serves the most recent input to the diagnostic renderer.
func (s *session) source(name string) ([]byte, error) {
	if name != inputName {
		return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
	}
	return []byte(s.last), nil
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".skim_history")
}

// ensureHistoryFilePermissions creates the history file if necessary and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0600) //nolint:gosec // path is the user's own history file
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}
