package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/commentcov-typescript/internal/config"
)

// Test Plan for logging:
// - Text and JSON formats are selected from config
// - Messages below the configured level are dropped
// - Unknown levels fall back to info

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)
	logger.Debug("measured", "files", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "measured", record["msg"])
	assert.Equal(t, float64(3), record["files"])
}

func TestNew_TextLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(config.LoggingConfig{Level: "warn", Format: "text"}, &buf)

	// Test: info is filtered, warn is written
	logger.Info("hidden")
	assert.Empty(t, buf.String())
	logger.Warn("shown", "path", "a.ts")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "path=a.ts")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
