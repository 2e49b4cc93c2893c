package grpc

import (
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// NewServer builds the gRPC server with the health service and reflection.
// A non-empty token guards every non-health method.
func NewServer(token string, logger *slog.Logger) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = slog.Default()
	}

	var opts []grpc.ServerOption
	if token != "" {
		opts = append(opts,
			grpc.UnaryInterceptor(AuthInterceptor(token)),
			grpc.StreamInterceptor(AuthStreamInterceptor(token)),
		)
	} else {
		logger.Warn("gRPC server running without authentication")
	}

	srv := grpc.NewServer(opts...)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return srv, hs
}
