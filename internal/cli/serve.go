package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/commentcov-typescript/internal/measure"
	"github.com/mvp-joe/commentcov-typescript/internal/rpc"
	"github.com/mvp-joe/commentcov-typescript/internal/telemetry"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the commentcov plugin protocol over gRPC",
	Long: `Start the gRPC plugin server and print the go-plugin handshake line
on stdout. The server runs until SIGINT or SIGTERM.

The Prometheus endpoint is served next to it when metrics are enabled.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	shutdownTracing, err := telemetry.SetupTracing(cfg.Tracing, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("failed to flush spans", "error", err)
		}
	}()

	svc, err := measure.NewService(cfg.Measure, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	ln, err := rpc.Listen(cfg.Server)
	if err != nil {
		return err
	}
	server := rpc.NewServer(cfg.Server, rpc.NewHandler(svc, logger), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve(gctx, ln)
	})

	if cfg.Metrics.Enabled {
		metricsLn, err := net.Listen("tcp", cfg.Metrics.Address)
		if err != nil {
			stop()
			_ = g.Wait()
			return fmt.Errorf("failed to listen on %s: %w", cfg.Metrics.Address, err)
		}
		g.Go(func() error {
			return telemetry.ServeMetrics(gctx, metricsLn, logger)
		})
	}

	if err := rpc.WriteHandshake(cmd.OutOrStdout(), ln.Addr()); err != nil {
		stop()
		_ = g.Wait()
		return fmt.Errorf("failed to write handshake: %w", err)
	}

	return g.Wait()
}
