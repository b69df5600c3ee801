// Package mcp exposes comment coverage to MCP clients over stdio.
package mcp

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
)

// ServerName is reported to MCP clients.
const ServerName = "commentcov-typescript"

// Server manages the MCP server lifecycle.
type Server struct {
	mcp    *server.MCPServer
	logger *slog.Logger
}

// NewServer registers commentcov_measure and, when history is non-nil,
// commentcov_history. A nil logger uses slog.Default().
func NewServer(version string, measurer Measurer, expand ExpandFunc, history History, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)

	AddMeasureTool(mcpServer, measurer, expand)
	if history != nil {
		AddHistoryTool(mcpServer, history)
	}

	return &Server{mcp: mcpServer, logger: logger}
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Serve runs the protocol on in and out until in closes or ctx is done.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	s.logger.Info("starting MCP server on stdio")
	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
