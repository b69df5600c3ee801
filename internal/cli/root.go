// Package cli implements the commentcov-typescript command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/commentcov-typescript/internal/config"
	"github.com/mvp-joe/commentcov-typescript/internal/logging"
	"github.com/mvp-joe/commentcov-typescript/internal/program"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd runs the plugin server when called without a subcommand, which is
// how the commentcov host launches plugins.
var rootCmd = &cobra.Command{
	Use:   "commentcov-typescript",
	Short: "TypeScript comment coverage plugin for commentcov",
	Long: `commentcov-typescript measures how well TypeScript declarations are documented.

Run without arguments it serves the commentcov plugin protocol over gRPC.
Subcommands measure files directly, list stored runs, or serve MCP.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .commentcov/config.yml in the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig reads --config when given, otherwise the working directory's
// .commentcov/config.yml, with COMMENTCOV_* overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.NewFileLoader(cfgFile).Load()
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// newLogger logs to w, which is stderr outside tests. Stdout carries the
// handshake or the report.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	logger := logging.New(cfg.Logging, w)
	slog.SetDefault(logger)
	return logger
}

// newExpander expands files and directories with the configured extensions
// and ignore globs.
func newExpander(cfg config.MeasureConfig) (func(paths []string) ([]string, error), *program.Matcher, error) {
	ignore, err := program.NewMatcher(cfg.Ignore)
	if err != nil {
		return nil, nil, err
	}
	expand := func(paths []string) ([]string, error) {
		return program.Expand(paths, cfg.Extensions, ignore)
	}
	return expand, ignore, nil
}
