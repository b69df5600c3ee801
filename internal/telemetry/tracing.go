// Package telemetry wires OpenTelemetry tracing and the Prometheus endpoint.
package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/mvp-joe/commentcov-typescript/internal/config"
)

// TracerName is shared by every span the plugin creates.
const TracerName = "commentcov.typescript"

// ShutdownFunc flushes and stops a provider.
type ShutdownFunc func(context.Context) error

// SetupTracing installs a global tracer provider that exports spans to w.
// When tracing is disabled the global no-op provider is left in place.
func SetupTracing(cfg config.TracingConfig, w io.Writer) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("failed to create span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
