package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/commentcov-typescript/internal/coverage"
	"github.com/mvp-joe/commentcov-typescript/internal/logging"
	"github.com/mvp-joe/commentcov-typescript/internal/measure"
	"github.com/mvp-joe/commentcov-typescript/internal/program"
	"github.com/mvp-joe/commentcov-typescript/internal/storage"
)

// Test Plan for MCP tools:
// - Registration of both tools does not panic
// - commentcov_measure expands paths, measures and returns items with a summary
// - summary_only drops the items
// - Missing paths and empty measurements are tool errors, not system errors
// - Measurement failures are system errors
// - commentcov_history clamps the limit and summarizes runs
// - Serve returns when input closes

type mockMeasurer struct {
	files  []string
	result *measure.Result
	err    error
}

func (m *mockMeasurer) Measure(ctx context.Context, files []string, opts ...measure.Option) (*measure.Result, error) {
	m.files = files
	return m.result, m.err
}

type mockHistory struct {
	limit int
	runs  []storage.Run
}

func (m *mockHistory) ListRuns(ctx context.Context, limit int) ([]storage.Run, error) {
	m.limit = limit
	return m.runs, nil
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "should be text content")
	return textContent.Text
}

func sampleResult() *measure.Result {
	return &measure.Result{
		Items: []coverage.Item{
			{
				Scope:          coverage.ScopePublicFunction,
				File:           "/p/a.ts",
				Identifier:     "inc",
				Extension:      ".ts",
				HeaderComments: []coverage.Comment{{Text: "Adds one."}},
			},
			{Scope: coverage.ScopePrivateVariable, File: "/p/a.ts", Identifier: "hidden", Extension: ".ts"},
		},
		Files:      []string{"/p/a.ts"},
		Duplicates: []string{"/p/b.ts"},
		Skipped:    []program.Skipped{{Path: "/p/gone.ts", Err: errors.New("missing")}},
	}
}

// Test: registration of both tools does not panic
func TestNewServer_Registration(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() {
		s := NewServer("test", &mockMeasurer{}, nil, &mockHistory{}, logging.Discard())
		assert.NotNil(t, s.MCPServer())
	})
	require.NotPanics(t, func() {
		NewServer("test", &mockMeasurer{}, nil, nil, nil)
	})
}

// Test: paths are expanded, measured and returned with a summary
func TestMeasureHandler_Success(t *testing.T) {
	t.Parallel()

	m := &mockMeasurer{result: sampleResult()}
	expand := func(paths []string) ([]string, error) {
		return append([]string{"/p/a.ts"}, paths...), nil
	}
	handler := createMeasureHandler(m, expand)

	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"paths": []interface{}{"/p/extra.ts"},
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, []string{"/p/a.ts", "/p/extra.ts"}, m.files)

	var response MeasureResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Len(t, response.CoverageItems, 2)
	assert.Equal(t, 2, response.Summary.Total)
	assert.Equal(t, 1, response.Summary.Documented)
	assert.Equal(t, []string{"/p/b.ts"}, response.Duplicates)
	assert.Equal(t, []string{"/p/gone.ts"}, response.Skipped)
}

// Test: summary_only drops the items
func TestMeasureHandler_SummaryOnly(t *testing.T) {
	t.Parallel()

	handler := createMeasureHandler(&mockMeasurer{result: sampleResult()}, nil)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"paths":        []interface{}{"/p/a.ts"},
		"summary_only": true,
	}))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.NotContains(t, text, "coverageItems")
	assert.Contains(t, text, `"total":2`)
}

// Test: bad arguments and empty measurements are tool errors
func TestMeasureHandler_ToolErrors(t *testing.T) {
	t.Parallel()

	handler := createMeasureHandler(&mockMeasurer{err: measure.ErrNoFiles}, nil)

	result, err := handler(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "paths parameter is required")

	result, err = handler(context.Background(), callRequest(map[string]interface{}{
		"paths": []interface{}{"/p/empty"},
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "no TypeScript files")

	failing := createMeasureHandler(&mockMeasurer{}, func([]string) ([]string, error) {
		return nil, errors.New("failed to stat /p/absent")
	})
	result, err = failing(context.Background(), callRequest(map[string]interface{}{
		"paths": []interface{}{"/p/absent"},
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

// Test: measurement failures are system errors
func TestMeasureHandler_Failure(t *testing.T) {
	t.Parallel()

	handler := createMeasureHandler(&mockMeasurer{err: context.Canceled}, nil)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"paths": []interface{}{"/p/a.ts"},
	}))
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

// Test: history clamps the limit and summarizes runs
func TestHistoryHandler(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	h := &mockHistory{runs: []storage.Run{
		{ID: "r1", CreatedAt: created, FileCount: 2, ItemCount: 4, DocumentedCount: 1},
	}}
	handler := createHistoryHandler(h)

	result, err := handler(context.Background(), callRequest(map[string]interface{}{"limit": float64(1000)}))
	require.NoError(t, err)
	assert.Equal(t, 100, h.limit)

	var response HistoryResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	require.Equal(t, 1, response.Total)
	assert.Equal(t, RunSummary{
		ID: "r1", CreatedAt: created, Files: 2, Items: 4, Documented: 1, Ratio: 0.25,
	}, response.Runs[0])

	// Test: no arguments uses the default limit
	_, err = handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.Equal(t, 10, h.limit)
}

// Test: Serve returns when input closes
func TestServer_ServeEOF(t *testing.T) {
	t.Parallel()

	s := NewServer("test", &mockMeasurer{}, nil, nil, logging.Discard())
	var out strings.Builder
	assert.NoError(t, s.Serve(context.Background(), strings.NewReader(""), &out))
}
