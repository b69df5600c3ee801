// Package rpc serves the commentcov plugin protocol over gRPC.
package rpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/mvp-joe/commentcov-typescript/internal/measure"
	"github.com/mvp-joe/commentcov-typescript/internal/rpc/pluginpb"
)

// Measurer is the part of measure.Service the handler needs.
type Measurer interface {
	Measure(ctx context.Context, files []string, opts ...measure.Option) (*measure.Result, error)
}

// Handler implements CommentcovPlugin.
type Handler struct {
	measurer Measurer
	logger   *slog.Logger
}

// NewHandler creates a handler. A nil logger uses slog.Default().
func NewHandler(m Measurer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{measurer: m, logger: logger}
}

// MeasureCoverage measures the request files. A request without files is
// NotFound.
func (h *Handler) MeasureCoverage(ctx context.Context, in *dynamicpb.Message) (*dynamicpb.Message, error) {
	logger := h.logger.With("request_id", uuid.NewString())
	start := time.Now()

	files := pluginpb.Files(in)
	if len(files) == 0 {
		logger.Warn("measure request without files")
		return nil, status.Error(codes.NotFound, "no files in request")
	}

	logger.Info("measure request", "files", len(files))
	res, err := h.measurer.Measure(ctx, files)
	if err != nil {
		logger.Error("measure failed", "error", err)
		return nil, toStatus(err)
	}

	logger.Info("measure complete",
		"items", len(res.Items),
		"measured_files", len(res.Files),
		"skipped_files", len(res.Skipped),
		"duration", time.Since(start))
	return pluginpb.NewMeasureCoverageOut(res.Items), nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, measure.ErrNoFiles):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
