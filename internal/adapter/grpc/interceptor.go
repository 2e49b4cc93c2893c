package grpc

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Probes call the standard health service without credentials.
const healthMethodPrefix = "/grpc.health.v1.Health/"

// authorize checks the "authorization" metadata of ctx against token.
// The value may be bare or "Bearer <token>".
func authorize(ctx context.Context, method, token string) error {
	if strings.HasPrefix(method, healthMethodPrefix) {
		return nil
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "missing metadata")
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return status.Error(codes.Unauthenticated, "missing authorization header")
	}
	if strings.TrimPrefix(values[0], "Bearer ") != token {
		return status.Error(codes.Unauthenticated, "invalid token")
	}
	return nil
}

// AuthInterceptor rejects unary calls without a valid token with
// codes.Unauthenticated. Health checks are exempt.
func AuthInterceptor(token string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if err := authorize(ctx, info.FullMethod, token); err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// AuthStreamInterceptor is AuthInterceptor for streaming calls such as
// reflection and health Watch.
func AuthStreamInterceptor(token string) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if err := authorize(ss.Context(), info.FullMethod, token); err != nil {
			return err
		}
		return handler(srv, ss)
	}
}
