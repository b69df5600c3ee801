package telemetry

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/mvp-joe/commentcov-typescript/internal/config"
	"github.com/mvp-joe/commentcov-typescript/internal/logging"
)

// Test Plan for telemetry:
// - Disabled tracing returns a no-op shutdown
// - Enabled tracing exports finished spans to the writer on shutdown
// - ServeMetrics exposes the Prometheus registry and stops on cancel

func TestSetupTracing_Disabled(t *testing.T) {
	t.Parallel()

	shutdown, err := SetupTracing(config.TracingConfig{Enabled: false}, io.Discard)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupTracing_Enabled(t *testing.T) {
	// Installs a global provider, so not parallel.
	var buf bytes.Buffer
	shutdown, err := SetupTracing(config.TracingConfig{Enabled: true}, &buf)
	require.NoError(t, err)

	_, span := otel.Tracer(TracerName).Start(context.Background(), "measure.Service.Measure")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "measure.Service.Measure")
}

func TestServeMetrics(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ServeMetrics(ctx, ln, logging.Discard()) }()

	url := "http://" + ln.Addr().String() + MetricsPath
	var body []byte
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ = io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
	assert.Contains(t, string(body), "go_goroutines")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}
