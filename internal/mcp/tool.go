package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/commentcov-typescript/internal/coverage"
	"github.com/mvp-joe/commentcov-typescript/internal/measure"
	"github.com/mvp-joe/commentcov-typescript/internal/report"
	"github.com/mvp-joe/commentcov-typescript/internal/storage"
)

// Tool names.
const (
	MeasureToolName = "commentcov_measure"
	HistoryToolName = "commentcov_history"
)

// Measurer is the part of measure.Service the tools need.
type Measurer interface {
	Measure(ctx context.Context, files []string, opts ...measure.Option) (*measure.Result, error)
}

// History lists recorded runs, newest first.
type History interface {
	ListRuns(ctx context.Context, limit int) ([]storage.Run, error)
}

// ExpandFunc turns tool paths, files or directories, into root files.
type ExpandFunc func(paths []string) ([]string, error)

// MeasureResponse is the commentcov_measure result.
type MeasureResponse struct {
	CoverageItems []coverage.Item `json:"coverageItems,omitempty"`
	Summary       report.Summary  `json:"summary"`
	Duplicates    []string        `json:"duplicates,omitempty"`
	Skipped       []string        `json:"skipped,omitempty"`
}

// RunSummary is one entry of the commentcov_history result.
type RunSummary struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Files      int       `json:"files"`
	Items      int       `json:"items"`
	Documented int       `json:"documented"`
	Ratio      float64   `json:"ratio"`
}

// HistoryResponse is the commentcov_history result.
type HistoryResponse struct {
	Runs  []RunSummary `json:"runs"`
	Total int          `json:"total"`
}

// AddMeasureTool registers commentcov_measure with an MCP server.
func AddMeasureTool(s *server.MCPServer, measurer Measurer, expand ExpandFunc) {
	tool := mcp.NewTool(
		MeasureToolName,
		mcp.WithDescription("Measure comment coverage of TypeScript sources. Returns every declaration with its header and inline comments, plus documented/total counts per scope."),
		mcp.WithArray("paths",
			mcp.Required(),
			mcp.Description("Files or directories to measure. Directories are searched for TypeScript files; relative imports are followed when enabled in config.")),
		mcp.WithBoolean("summary_only",
			mcp.Description("Return only the summary, without coverage items (default: false)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createMeasureHandler(measurer, expand))
}

// AddHistoryTool registers commentcov_history with an MCP server.
func AddHistoryTool(s *server.MCPServer, history History) {
	tool := mcp.NewTool(
		HistoryToolName,
		mcp.WithDescription("List recorded comment coverage runs, newest first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of runs to return (1-100, default: 10)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createHistoryHandler(history))
}

func createMeasureHandler(measurer Measurer, expand ExpandFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		paths, err := parseArrayArg(argsMap, "paths", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		summaryOnly := parseBoolArg(argsMap, "summary_only", false)

		roots := paths
		if expand != nil {
			if roots, err = expand(paths); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}

		result, err := measurer.Measure(ctx, roots)
		if errors.Is(err, measure.ErrNoFiles) {
			return mcp.NewToolResultError("no TypeScript files found"), nil
		}
		if err != nil {
			return nil, fmt.Errorf("measure failed: %w", err)
		}

		response := &MeasureResponse{
			Summary:    report.Summarize(result.Items),
			Duplicates: result.Duplicates,
		}
		if !summaryOnly {
			response.CoverageItems = result.Items
		}
		for _, s := range result.Skipped {
			response.Skipped = append(response.Skipped, s.Path)
		}

		return marshalToolResponse(response)
	}
}

func createHistoryHandler(history History) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}
		limit := parseClampedInt(argsMap, "limit", 10, 1, 100)

		runs, err := history.ListRuns(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list runs: %w", err)
		}

		response := &HistoryResponse{Runs: make([]RunSummary, 0, len(runs)), Total: len(runs)}
		for _, run := range runs {
			response.Runs = append(response.Runs, RunSummary{
				ID:         run.ID,
				CreatedAt:  run.CreatedAt,
				Files:      run.FileCount,
				Items:      run.ItemCount,
				Documented: run.DocumentedCount,
				Ratio:      run.Ratio(),
			})
		}

		return marshalToolResponse(response)
	}
}

// parseToolArguments validates and extracts the arguments map from an MCP
// tool request. A request without arguments yields an empty map.
func parseToolArguments(request mcp.CallToolRequest) (map[string]interface{}, *mcp.CallToolResult) {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}, nil
	}
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, mcp.NewToolResultError("invalid arguments format")
	}
	return argsMap, nil
}

// marshalToolResponse returns response as JSON text (mcp-go convention).
func marshalToolResponse(response interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
