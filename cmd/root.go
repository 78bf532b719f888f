// Copyright © 2018 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/luthersystems/skim/diagnostic"
	"github.com/luthersystems/skim/serr"
	"github.com/luthersystems/skim/sysenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errReported is returned by commands whose failure has already been
// rendered to the user.
var errReported = errors.New("failure reported")

var (
	cfgFile string
	logger  = hclog.NewNullLogger()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "skim",
	Short: "A small Scheme interpreter",
	Long: `skim is an interpreter for a small Scheme dialect implemented in Go.

Getting started:
  skim run file.scm            Run a program
  skim run -e '(+ 1 2)' -p     Evaluate an expression and print its value
  skim run src/...             Run every .scm file under src
  skim repl                    Start an interactive REPL

Every failure is reported with its source location and the process exits
with status 1.  Use --verbose to include the failure category.

Configuration is read from $HOME/.skim.yaml and SKIM_* environment
variables (SKIM_LOG_LEVEL, SKIM_COLOR, SKIM_ENV_FILE, ...).  Files given
with --env-file are loaded into the environment before evaluation.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := diagnostic.ParseColorMode(viper.GetString("color")); err != nil {
			return err
		}
		logger = NewLogger("skim",
			viper.GetString("log-level"),
			viper.GetBool("json-log"),
			cmd.ErrOrStderr())
		if path := viper.ConfigFileUsed(); path != "" {
			logger.Debug("using config file", "path", path)
		}
		return loadEnvFiles(cmd, viper.GetStringSlice("env-file"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.skim.yaml)")
	flags.String("color", "auto", `Control colored output: "auto", "always", or "never".`)
	flags.String("log-level", "warn", "Log level (trace, debug, info, warn, error).")
	flags.Bool("json-log", false, "Write logs as JSON.")
	flags.StringSlice("env-file", nil, "Load environment variables from a dotenv file (repeatable).")
	flags.BoolP("verbose", "v", false, "Include failure categories in diagnostics.")
	flags.Bool("trace", false, "Log a trace span for each top-level form.")
	for _, name := range []string{"color", "log-level", "json-log", "env-file", "verbose", "trace"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("skim")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err == nil {
			// Search config in home directory with name ".skim" (without extension).
			viper.AddConfigPath(home)
			viper.SetConfigName(".skim")
		}
	}

	viper.AutomaticEnv() // read in environment variables that match

	// A missing config file is not an error.
	_ = viper.ReadInConfig()
}

func loadEnvFiles(cmd *cobra.Command, paths []string) error {
	for _, path := range paths {
		if err := sysenv.Load(path); err != nil {
			e := envFileError(path, err)
			logger.Debug("loading env file failed",
				"path", path,
				"kind", e.Kind().String(),
				"category", serr.Category(e),
				"error", err)
			renderFailure(cmd.ErrOrStderr(), e, nil)
			return errReported
		}
	}
	return nil
}

// envFileError classifies a failure loading the dotenv file at path.
// Filesystem failures are IOErr, malformed contents are Generic.
func envFileError(path string, err error) serr.Error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return serr.IO(err)
	}
	return serr.NewGeneric(fmt.Sprintf("malformed env file %s: %v", path, err))
}
