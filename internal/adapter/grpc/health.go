package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported next to the overall status.
const ServiceName = "partnerdesk.Collaborator"

// Pinger is the storage liveness probe, satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthReporter keeps the health service in step with storage liveness.
type HealthReporter struct {
	Health *health.Server
	Store  Pinger

	logger *slog.Logger
	last   healthpb.HealthCheckResponse_ServingStatus
}

// NewHealthReporter creates a new HealthReporter instance
func NewHealthReporter(hs *health.Server, store Pinger, logger *slog.Logger) *HealthReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthReporter{Health: hs, Store: store, logger: logger}
}

// Check pings storage once and publishes the result.
func (r *HealthReporter) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := r.Store.PingContext(pingCtx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		if r.last != status {
			r.logger.Warn("Storage ping failed", "error", err)
		}
	} else if r.last == healthpb.HealthCheckResponse_NOT_SERVING {
		r.logger.Info("Storage reachable again")
	}

	r.last = status
	r.Health.SetServingStatus("", status)
	r.Health.SetServingStatus(ServiceName, status)
	return status
}

// Run checks storage every interval until ctx is done, then marks the service
// as shutting down.
func (r *HealthReporter) Run(ctx context.Context, interval time.Duration) {
	r.Check(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Health.Shutdown()
			return
		case <-ticker.C:
			r.Check(ctx)
		}
	}
}
