package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/commentcov-typescript/internal/mcp"
	"github.com/mvp-joe/commentcov-typescript/internal/measure"
	"github.com/mvp-joe/commentcov-typescript/internal/storage"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for comment coverage",
	Long: `Start the Model Context Protocol (MCP) server that lets coding
assistants measure how well TypeScript code is documented.

The MCP server:
- Provides the commentcov_measure tool over files and directories
- Provides commentcov_history when storage.path is configured
- Communicates via stdio (standard MCP transport)

Example:
  commentcov-typescript mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	expand, _, err := newExpander(cfg.Measure)
	if err != nil {
		return err
	}

	svc, err := measure.NewService(cfg.Measure, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	// A nil *storage.Store must not become a non-nil interface.
	var history mcp.History
	if cfg.Storage.Path != "" {
		store, err := storage.Open(cfg.Storage.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		history = store
	}

	server := mcp.NewServer(Version, svc, expand, history, logger)
	if err := server.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
