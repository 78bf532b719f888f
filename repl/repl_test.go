package repl

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/luthersystems/skim/diagnostic"
	"github.com/luthersystems/skim/eval"
	"github.com/luthersystems/skim/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runReplWithString(t *testing.T, input string, opts ...Option) (string, error) {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	errc := make(chan error, 1)
	go func() {
		opts = append([]Option{
			WithStdin(inR),
			WithStderr(outW),
			WithColor(diagnostic.ColorNever),
			WithHistoryFile(""),
		}, opts...)
		errc <- RunRepl(context.Background(), "skim> ", opts...)
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup

	return output.String(), <-errc
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".skim_history")

	// File does not exist yet.
	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "new history file should have mode 0600")
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".skim_history")

	// Create the file with overly permissive mode.
	err := os.WriteFile(histFile, []byte("some history"), 0644)
	require.NoError(t, err)

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing history file should be restricted to 0600")

	// Verify contents are preserved.
	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "some history", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	// Should not panic or error with empty path.
	ensureHistoryFilePermissions("")
}

func TestRunRepl(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Simple Addition",
			input:    "(+ 1 1)\n",
			expected: []string{"2\n"},
		},
		{
			name:     "Error",
			input:    "fnord\n",
			expected: []string{"Unbound variable: fnord"},
		},
		{
			name:     "Multiline",
			input:    "(define (sq x)\n  (* x x))\n(sq 12)\n",
			expected: []string{"144\n"},
		},
		{
			name:     "Display",
			input:    "(display \"hello\")\n",
			expected: []string{"hello"},
		},
		{
			name:     "Continue After Error",
			input:    "(car '())\n(+ 2 3)\n",
			expected: []string{"Expected a pair", "5\n"},
		},
		{
			name:     "Stray Paren",
			input:    ")\n",
			expected: []string{"Not expected this token: )"},
		},
		{
			name:     "Multiline String",
			input:    "(display \"abc\ndef\")\n(+ 1 2)\n",
			expected: []string{"abc\ndef", "3\n"},
		},
		{
			name:     "Unfinished String",
			input:    "(display \"abc\n",
			expected: []string{"unterminated string literal"},
		},
		{
			name:     "Unfinished Input",
			input:    "(+ 1\n",
			expected: []string{"found EOF"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := runReplWithString(t, tc.input)
			require.NoError(t, err)
			for _, want := range tc.expected {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestRunReplVerbose(t *testing.T) {
	got, err := runReplWithString(t, "(/ 1 0)\n", WithVerbose(true))
	require.NoError(t, err)
	assert.Contains(t, got, "Division by zero")
	assert.Contains(t, got, "category: Division by zero")
}

func TestRunEvaluatorKeepsGlobals(t *testing.T) {
	var out bytes.Buffer
	ev := eval.New(eval.WithStdout(&out))
	ev.Global.Define("answer", lisp.Int(42))

	inR, inW := io.Pipe()
	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, "(define x (+ answer 1))\n")
	}()
	outR, outW := io.Pipe()
	go func() {
		_, _ = io.Copy(io.Discard, outR)
	}()
	err := RunEvaluator(context.Background(), ev, "> ", "  ",
		WithStdin(inR), WithStderr(outW), WithHistoryFile(""))
	outW.Close() //nolint:errcheck,gosec // test cleanup
	require.NoError(t, err)

	x, err := ev.Global.Lookup("x")
	require.NoError(t, err)
	assert.Equal(t, 43, x.Int)
}
