package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oggyb/eventswipe/internal/auth"
	"github.com/oggyb/eventswipe/internal/config"
)

// Server is the gRPC server with its health service.
type Server struct {
	GRPC   *grpc.Server
	health *health.Server
	log    *slog.Logger
}

// New builds a gRPC server with metrics, auth and logging interceptors
// (in that order) and registers all provided services.
func New(authn *auth.Authenticator, log *slog.Logger, registrars ...Registrar) *Server {
	if log == nil {
		log = slog.Default()
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			MetricsInterceptor(),
			authn.UnaryInterceptor(),
			LoggingInterceptor(log),
		),
	)

	// register all services
	for _, r := range registrars {
		r.Register(grpcServer)
	}
	for name := range grpcServer.GetServiceInfo() {
		log.Debug("registered gRPC service", slog.String("service", name))
	}

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	return &Server{GRPC: grpcServer, health: hs, log: log}
}

// Serve accepts connections on lis until ctx is done, then drains in-flight
// calls with GracefulStop.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	errCh := make(chan error, 1)
	go func() { errCh <- s.GRPC.Serve(lis) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("shutting down gRPC server")
		s.health.Shutdown()
		s.GRPC.GracefulStop()
		return nil
	}
}

// StartGRPCServer boots a gRPC server on the configured address and registers
// all provided services. It returns when ctx is done.
func StartGRPCServer(ctx context.Context, cfg *config.Config, authn *auth.Authenticator, log *slog.Logger, registrars ...Registrar) error {
	addr := fmt.Sprintf("%s:%s", cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return New(authn, log, registrars...).Serve(ctx, lis)
}
