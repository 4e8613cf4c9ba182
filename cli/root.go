// Package cli implements the mirage command-line surface: the `build` and
// `run` verbs spec.md §6 names, plus ambient flags (color/verbosity/config
// path) a complete toolchain carries. It never imports vm/parser/value for
// anything beyond wiring them together — the colored diagnostics and
// cobra plumbing that live here stay out of the CORE packages entirely.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"

	"github.com/mirage-lang/mirage/config"
)

// Version is the toolchain version, overridable at build time with
// -ldflags "-X github.com/mirage-lang/mirage/cli.Version=...".
var Version = "dev"

var (
	flagConfigPath string
	flagNoColor    bool
	flagVerbose    bool
	flagLogFile    string
)

// Execute builds and runs the root command, returning the process exit
// code the way cobra's own Execute does not.
func Execute() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mirage",
		Short:         "Mirage is a tiny register-based virtual machine",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to mirage.toml (default: platform config dir)")
	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored diagnostics")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")
	root.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "also write structured JSON logs to this file")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newBuildCmd())
	root.AddCommand(newRunCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mirage toolchain version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mirage %s\n", Version)
		},
	}
}

// loadConfig resolves the ambient mirage.toml, falling back to defaults,
// per the --config flag.
func loadConfig() (*config.Config, error) {
	if flagConfigPath != "" {
		return config.LoadFrom(flagConfigPath)
	}
	return config.Load()
}

// newLogger builds the structured logger: a human-readable console handler,
// fanned out to an optional JSON file handler via slog-multi when
// --log-file is set. Used for toolchain-operational logging only — never
// for a running program's own stdoutwrite/stderrwrite output.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644) // #nosec G304 -- user-specified log path
		if err == nil {
			handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		}
	}
	return slog.New(slogmulti.Fanout(handlers...))
}
