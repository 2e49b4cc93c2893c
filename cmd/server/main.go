package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	grpcadapter "github.com/simaogato/partnerdesk/internal/adapter/grpc"
	"github.com/simaogato/partnerdesk/internal/adapter/httpapi"
	"github.com/simaogato/partnerdesk/internal/adapter/repository/postgres"
	"github.com/simaogato/partnerdesk/internal/adapter/repository/sqlite"
	"github.com/simaogato/partnerdesk/internal/config"
	"github.com/simaogato/partnerdesk/internal/domain"
	"github.com/simaogato/partnerdesk/internal/usecase/seeder"
	"github.com/simaogato/partnerdesk/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

// storage bundles the repositories with the handle used for health pings.
type storage struct {
	partners domain.PartnerRepository
	clients  domain.ClientRepository
	pinger   grpcadapter.Pinger
	close    func() error
}

func main() {
	configFile := flag.String("config", "", "Config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		stop()
		os.Exit(1)
	}
}

// run serves until ctx is done or a server fails. Storage is closed on every
// return path.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// 1. Setup storage
	store, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}
	defer func() {
		if err := store.close(); err != nil {
			logger.Error("Failed to close storage", "error", err)
		}
	}()

	if cfg.Server.Seed {
		if err := seeder.NewDemoSeeder(store.partners, store.clients, logger).Seed(ctx); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		logger.Info("Demo data seeded")
	}

	// 2. Listeners
	httpLis, err := net.Listen("tcp", cfg.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.HTTPAddr, err)
	}
	grpcLis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		httpLis.Close()
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.GRPCAddr, err)
	}

	// 3. HTTP API
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	httpServer := &http.Server{
		Handler: httpapi.NewRouter(httpapi.Options{
			Partners: store.partners,
			Clients:  store.clients,
			Logger:   logger,
			APIToken: cfg.Server.APIToken,
			Registry: registry,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 4. gRPC health
	grpcServer, healthServer := grpcadapter.NewServer(cfg.Server.APIToken, logger)
	reporter := grpcadapter.NewHealthReporter(healthServer, store.pinger, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 2)
	go func() {
		logger.Info("HTTP server listening", "addr", httpLis.Addr().String())
		if err := httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		logger.Info("gRPC server listening", "addr", grpcLis.Addr().String())
		if err := grpcServer.Serve(grpcLis); err != nil {
			errc <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go reporter.Run(ctx, cfg.Server.HealthInterval)

	// Graceful shutdown
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down gracefully")
	case serveErr = <-errc:
	}
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Servers stopped")

	return serveErr
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (*storage, error) {
	switch cfg.Driver {
	case "postgres":
		db, err := postgres.NewDB(cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return &storage{
			partners: postgres.NewPartnerRepository(db),
			clients:  postgres.NewClientRepository(db),
			pinger:   db,
			close:    db.Close,
		}, nil
	default:
		db, err := sqlite.New(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &storage{
			partners: sqlite.NewPartnerRepository(db),
			clients:  sqlite.NewClientRepository(db),
			pinger:   db,
			close:    db.Close,
		}, nil
	}
}
