// Copyright © 2018 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/luthersystems/skim/eval"
	"github.com/luthersystems/skim/lisp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	runExpression bool
	runPrint      bool
	runExcludes   []string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] FILE...",
	Short: "Run scheme code",
	Long: `Run scheme code supplied via the command line or files.

Arguments ending in "/..." name every .scm file found recursively under a
directory.  Files run in order in a shared global environment and the
first failure stops the run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ev, shutdown := newEvaluator(cmd)
		defer shutdown()
		if runExpression {
			return runExpressions(cmd, ev, args)
		}
		files, err := expandArgs(args, runExcludes)
		if err != nil {
			return err
		}
		for _, path := range files {
			v, err := ev.LoadFile(cmd.Context(), path)
			if err != nil {
				renderFailure(cmd.ErrOrStderr(), err, nil)
				return errReported
			}
			printResult(cmd.OutOrStdout(), v)
		}
		return nil
	},
}

func runExpressions(cmd *cobra.Command, ev *eval.Evaluator, args []string) error {
	sources := make(map[string]string, len(args))
	for i, src := range args {
		name := fmt.Sprintf("<expr %d>", i+1)
		sources[name] = src
		v, err := ev.LoadString(cmd.Context(), name, src)
		if err != nil {
			renderFailure(cmd.ErrOrStderr(), err, sources)
			return errReported
		}
		printResult(cmd.OutOrStdout(), v)
	}
	return nil
}

func printResult(w io.Writer, v *lisp.LVal) {
	if runPrint && v.Type != lisp.LUnspecified {
		fmt.Fprintln(w, v) //nolint:errcheck // best-effort output
	}
}

// newEvaluator returns an evaluator writing to the command's output streams.
// The returned function flushes traces and must be called when evaluation
// is finished.
func newEvaluator(cmd *cobra.Command) (*eval.Evaluator, func()) {
	opts := []eval.Option{
		eval.WithStdout(cmd.OutOrStdout()),
		eval.WithStdin(cmd.InOrStdin()),
		eval.WithLogger(logger.Named("eval")),
	}
	shutdown := func() {}
	if viper.GetBool("trace") {
		tp := newTracerProvider(logger.Named("trace"))
		opts = append(opts, eval.WithTracerProvider(tp))
		shutdown = func() {
			_ = tp.Shutdown(context.Background())
		}
	}
	return eval.New(opts...), shutdown
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Here flags for the run command are defined
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as scheme expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print the value of each file or expression to stdout")
	runCmd.Flags().StringSliceVar(&runExcludes, "exclude", nil,
		`Skip files found by "/..." patterns that match a glob (repeatable)`)
}
