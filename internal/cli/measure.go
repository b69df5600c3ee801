package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/commentcov-typescript/internal/config"
	"github.com/mvp-joe/commentcov-typescript/internal/measure"
	"github.com/mvp-joe/commentcov-typescript/internal/program"
	"github.com/mvp-joe/commentcov-typescript/internal/report"
	"github.com/mvp-joe/commentcov-typescript/internal/storage"
	"github.com/mvp-joe/commentcov-typescript/internal/watcher"
)

var (
	measureFormat   string
	measureNoFollow bool
	measureWatch    bool
	measureSave     bool
	measureQuiet    bool
	measureGraph    bool
)

// measureCmd represents the measure command
var measureCmd = &cobra.Command{
	Use:   "measure [paths...]",
	Short: "Measure comment coverage of TypeScript files",
	Long: `Measure files and directories and print a coverage report.

Directories are searched for files with the configured extensions.
Relative imports of the measured files are followed unless --no-follow is set.

Examples:
  commentcov-typescript measure src
  commentcov-typescript measure --format json src/index.ts
  commentcov-typescript measure --watch --save .`,
	RunE: runMeasure,
}

func init() {
	measureCmd.Flags().StringVarP(&measureFormat, "format", "f", "text", "report format: text, json or yaml")
	measureCmd.Flags().BoolVar(&measureNoFollow, "no-follow", false, "measure only the given files")
	measureCmd.Flags().BoolVarP(&measureWatch, "watch", "w", false, "re-measure when files change")
	measureCmd.Flags().BoolVar(&measureSave, "save", false, "record the run in the history database")
	measureCmd.Flags().BoolVarP(&measureQuiet, "quiet", "q", false, "no progress bar")
	measureCmd.Flags().BoolVar(&measureGraph, "graph", false, "print the import graph after a text report")
	rootCmd.AddCommand(measureCmd)
}

func runMeasure(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(measureFormat)
	if err != nil {
		return err
	}
	if measureGraph && format != report.FormatText {
		return fmt.Errorf("--graph requires the text format")
	}
	if measureNoFollow {
		cfg.Measure.FollowImports = false
	}
	if measureWatch {
		// Every change is reported against a fresh visited set.
		cfg.Measure.DedupScope = config.DedupRequest
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	expand, ignore, err := newExpander(cfg.Measure)
	if err != nil {
		return err
	}

	svc, err := measure.NewService(cfg.Measure, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	var store *storage.Store
	if measureSave {
		if cfg.Storage.Path == "" {
			return errors.New("--save requires storage.path to be configured")
		}
		if store, err = storage.Open(cfg.Storage.Path); err != nil {
			return err
		}
		defer store.Close()
	}

	m := &measurement{
		svc:    svc,
		store:  store,
		format: format,
		graph:  measureGraph,
		quiet:  measureQuiet,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		logger: logger,
	}

	if err := m.run(ctx, expand, paths); err != nil {
		if !measureWatch {
			return err
		}
		logger.Warn("measurement failed", "error", err)
	}
	if !measureWatch {
		return nil
	}

	return watchPaths(ctx, paths, cfg.Measure, ignore, logger, func() {
		if err := m.run(ctx, expand, paths); err != nil && ctx.Err() == nil {
			logger.Warn("measurement failed", "error", err)
		}
	})
}

// measurement runs one measure-report-save cycle.
type measurement struct {
	svc    *measure.Service
	store  *storage.Store
	format report.Format
	graph  bool
	quiet  bool
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger
}

func (m *measurement) run(ctx context.Context, expand func([]string) ([]string, error), paths []string) error {
	roots, err := expand(paths)
	if err != nil {
		return err
	}

	progress := newMeasureProgress(m.quiet, m.errOut)
	result, err := m.svc.Measure(ctx, roots, measure.WithProgress(progress.OnFileMeasured))
	progress.Finish()
	if err != nil {
		return err
	}

	if err := report.Write(m.out, m.format, result.Items); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if m.graph {
		if err := writeImportGraph(m.out, result); err != nil {
			return err
		}
	}
	for _, s := range result.Skipped {
		m.logger.Warn("file not measured", "path", s.Path, "error", s.Err)
	}

	if m.store != nil {
		run := storage.NewRun(result.Items, len(result.Files), time.Now())
		if err := m.store.SaveRun(ctx, run); err != nil {
			return err
		}
		m.logger.Info("saved run", "id", run.ID, "items", run.ItemCount, "documented", run.DocumentedCount)
	}
	return nil
}

// writeImportGraph prints each file's resolved imports.
func writeImportGraph(w io.Writer, result *measure.Result) error {
	if result.Imports == nil {
		return nil
	}
	adj, err := result.Imports.AdjacencyMap()
	if err != nil {
		return fmt.Errorf("failed to read import graph: %w", err)
	}

	files := make([]string, 0, len(adj))
	for file := range adj {
		if len(adj[file]) > 0 {
			files = append(files, file)
		}
	}
	sort.Strings(files)

	fmt.Fprintln(w, "IMPORTS")
	for _, file := range files {
		deps := make([]string, 0, len(adj[file]))
		for dep := range adj[file] {
			deps = append(deps, dep)
		}
		sort.Strings(deps)
		for _, dep := range deps {
			fmt.Fprintf(w, "  %s -> %s\n", file, dep)
		}
	}
	return nil
}

// watchPaths calls onChange after each debounced batch of changes under
// paths until ctx is done.
func watchPaths(ctx context.Context, paths []string, cfg config.MeasureConfig, ignore *program.Matcher, logger *slog.Logger, onChange func()) error {
	w, err := watcher.New(watchDirs(paths), watcher.Options{
		Extensions: cfg.Extensions,
		Ignore:     ignore,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()

	err = w.Start(ctx, func(files []string) {
		logger.Info("files changed, measuring again", "count", len(files))
		onChange()
	})
	if err != nil {
		return err
	}

	logger.Info("watching for changes", "paths", paths)
	<-ctx.Done()
	return nil
}

// watchDirs maps paths to the directories holding them, without duplicates.
func watchDirs(paths []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range paths {
		dir := p
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			dir = filepath.Dir(p)
		}
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
