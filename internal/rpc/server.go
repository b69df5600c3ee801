package rpc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthgrpc "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/mvp-joe/commentcov-typescript/internal/config"
)

// Handshake protocol versions expected by hashicorp/go-plugin hosts.
const (
	CoreProtocolVersion = 1
	AppProtocolVersion  = 1
)

// Server hosts the plugin, health and reflection services.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	cfg    config.ServerConfig
	logger *slog.Logger
}

// NewServer registers plugin on a new gRPC server.
func NewServer(cfg config.ServerConfig, plugin CommentcovPluginServer, logger *slog.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gs := grpc.NewServer(opts...)
	RegisterCommentcovPluginServer(gs, plugin)

	hs := health.NewServer()
	hs.SetServingStatus("", healthgrpc.HealthCheckResponse_SERVING)
	hs.SetServingStatus(cfg.HealthService, healthgrpc.HealthCheckResponse_SERVING)
	healthgrpc.RegisterHealthServer(gs, hs)

	if cfg.Reflection {
		reflection.Register(gs)
	}

	return &Server{grpc: gs, health: hs, cfg: cfg, logger: logger}
}

// Listen opens the configured TCP address. Port 0 picks a free port.
func Listen(cfg config.ServerConfig) (net.Listener, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}

// Handshake returns the go-plugin handshake line for addr.
func Handshake(addr net.Addr) string {
	return fmt.Sprintf("%d|%d|%s|%s|grpc", CoreProtocolVersion, AppProtocolVersion, addr.Network(), addr.String())
}

// WriteHandshake prints the handshake line the host waits for.
func WriteHandshake(w io.Writer, addr net.Addr) error {
	_, err := fmt.Fprintln(w, Handshake(addr))
	return err
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight calls.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("plugin server listening", "address", ln.Addr().String())
		errCh <- s.grpc.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("plugin server stopping")
		s.health.Shutdown()
		s.grpc.GracefulStop()
		return <-errCh
	}
}
