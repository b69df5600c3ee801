// Package measure turns a list of files into coverage items.
package measure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dominikbraun/graph"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mvp-joe/commentcov-typescript/internal/config"
	"github.com/mvp-joe/commentcov-typescript/internal/coverage"
	"github.com/mvp-joe/commentcov-typescript/internal/program"
	"github.com/mvp-joe/commentcov-typescript/internal/syntax"
	"github.com/mvp-joe/commentcov-typescript/internal/telemetry"
)

// ErrNoFiles is returned when a measurement names no files.
var ErrNoFiles = errors.New("no files to measure")

// DefaultCacheSize bounds the parsed-file cache.
const DefaultCacheSize = 4096

// Result is the outcome of one measurement.
type Result struct {
	// Items are the coverage items of every measured file, in program order.
	Items []coverage.Item

	// Files are the measured files in program order.
	Files []string

	// Duplicates were in the program but already measured under the
	// current dedup scope.
	Duplicates []string

	// Skipped files could not be read or parsed.
	Skipped []program.Skipped

	// Imports is the import graph of the loaded program.
	Imports graph.Graph[string, string]
}

// Documented counts items with a header comment.
func (r *Result) Documented() int {
	n := 0
	for _, item := range r.Items {
		if item.Documented() {
			n++
		}
	}
	return n
}

// Service measures comment coverage. It is safe for concurrent use.
type Service struct {
	loader *program.Loader

	// visited is shared across measurements in process dedup scope and
	// nil in request scope.
	visited *coverage.VisitedFiles

	logger *slog.Logger
}

// NewService creates a service. A nil logger uses slog.Default().
func NewService(cfg config.MeasureConfig, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	loader, err := program.NewLoader(syntax.NewParser(), program.Options{
		FollowImports: cfg.FollowImports,
		Ignore:        cfg.Ignore,
		CacheSize:     DefaultCacheSize,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create program loader: %w", err)
	}

	s := &Service{loader: loader, logger: logger}
	if strings.EqualFold(cfg.DedupScope, config.DedupProcess) {
		s.visited = coverage.NewVisitedFiles()
	}
	return s, nil
}

// Close releases cached files.
func (s *Service) Close() {
	s.loader.Close()
}

// Option configures a single measurement.
type Option func(*measureOptions)

type measureOptions struct {
	progress func(done, total int)
}

// WithProgress reports after every program file is handled.
func WithProgress(fn func(done, total int)) Option {
	return func(o *measureOptions) {
		o.progress = fn
	}
}

// Measure builds the program rooted at files and returns the coverage items
// of every file not measured before under the dedup scope.
func (s *Service) Measure(ctx context.Context, files []string, opts ...Option) (*Result, error) {
	var o measureOptions
	for _, opt := range opts {
		opt(&o)
	}

	ctx, span := otel.Tracer(telemetry.TracerName).Start(ctx, "measure.Service.Measure",
		trace.WithAttributes(attribute.Int("request_files", len(files))),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		measureDuration.Observe(time.Since(start).Seconds())
	}()

	if len(files) == 0 {
		requestsTotal.WithLabelValues(statusEmpty).Inc()
		span.SetStatus(codes.Error, ErrNoFiles.Error())
		return nil, ErrNoFiles
	}

	prog, err := s.loader.Load(ctx, files)
	if err != nil {
		requestsTotal.WithLabelValues(statusError).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to load program: %w", err)
	}

	visited := s.visited
	if visited == nil {
		visited = coverage.NewVisitedFiles()
	}

	result := &Result{
		Items:   []coverage.Item{},
		Files:   []string{},
		Skipped: prog.Skipped,
		Imports: prog.Imports,
	}
	total := len(prog.Files)
	for i, f := range prog.Files {
		if visited.Visit(f.Path) {
			s.logger.Debug("already measured", "path", f.Path)
			result.Duplicates = append(result.Duplicates, f.Path)
			filesTotal.WithLabelValues(statusDuplicate).Inc()
		} else {
			items := coverage.Visit(f)
			result.Items = append(result.Items, items...)
			result.Files = append(result.Files, f.Path)
			filesTotal.WithLabelValues(statusMeasured).Inc()
			for _, item := range items {
				itemsTotal.WithLabelValues(item.Scope.String()).Inc()
			}
		}
		if o.progress != nil {
			o.progress(i+1, total)
		}
	}
	filesTotal.WithLabelValues(statusSkipped).Add(float64(len(prog.Skipped)))
	requestsTotal.WithLabelValues(statusSuccess).Inc()

	span.SetAttributes(
		attribute.Int("files", len(result.Files)),
		attribute.Int("duplicates", len(result.Duplicates)),
		attribute.Int("skipped", len(result.Skipped)),
		attribute.Int("items", len(result.Items)),
	)
	s.logger.Debug("measured",
		"files", len(result.Files),
		"items", len(result.Items),
		"duplicates", len(result.Duplicates),
		"skipped", len(result.Skipped),
		"duration", time.Since(start))

	return result, nil
}
