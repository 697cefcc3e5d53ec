package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/oggyb/eventswipe/internal/auth"
	"github.com/oggyb/eventswipe/internal/logger"
	"github.com/oggyb/eventswipe/internal/metrics"
)

// MetricsInterceptor counts every call by method and status code.
func MetricsInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		defer metrics.Track(metrics.GRPCLatency.WithLabelValues(info.FullMethod))()
		resp, err := handler(ctx, req)
		metrics.GRPCRequests.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
		return resp, err
	}
}

// LoggingInterceptor stores a request-scoped logger carrying method and user
// on the context and logs each call's outcome.
func LoggingInterceptor(base *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		log := base.With("method", info.FullMethod)
		if userID, err := auth.UserID(ctx); err == nil {
			log = log.With("user", userID)
		}

		start := time.Now()
		resp, err := handler(logger.IntoContext(ctx, log), req)

		code := status.Code(err)
		if err != nil {
			log.Warn("rpc failed", "code", code.String(), "duration", time.Since(start), "err", err)
		} else {
			log.Debug("rpc ok", "duration", time.Since(start))
		}
		return resp, err
	}
}
