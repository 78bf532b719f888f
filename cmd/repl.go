// Copyright © 2018 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/luthersystems/skim/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive REPL",
	Long: `Start an interactive read-eval-print loop.

Line editing, symbol completion and command history are supported via
readline.  An expression may span several lines.  Use Ctrl-C to discard
the current input and Ctrl-D to exit.

Example REPL session:
  skim> (define (square x) (* x x))
  skim> (square 5)
  25
  skim> (car '())
  error: Expected a pair, found this: ()`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ev, shutdown := newEvaluator(cmd)
		defer shutdown()
		prompt := filepath.Base(os.Args[0]) + "> "
		return repl.RunEvaluator(cmd.Context(), ev, prompt, strings.Repeat(" ", len(prompt)),
			repl.WithColor(colorMode()),
			repl.WithVerbose(viper.GetBool("verbose")),
		)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
