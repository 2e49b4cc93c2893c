package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/partnerdesk/internal/adapter/repository/sqlite"
	"github.com/simaogato/partnerdesk/internal/config"
	"github.com/simaogato/partnerdesk/internal/usecase/seeder"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			HTTPAddr:       "127.0.0.1:0",
			GRPCAddr:       "127.0.0.1:0",
			Seed:           true,
			HealthInterval: time.Second,
		},
		Storage: config.StorageConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "server.db")},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_StopsWhenContextEnds(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, quietLogger()) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}

	// The store was closed and seeded, so it opens again with the demo data.
	db, err := sqlite.New(cfg.Storage.DSN)
	require.NoError(t, err)
	defer db.Close()
	clients, err := sqlite.NewClientRepository(db).List(context.Background(), seeder.DemoPartnerID)
	require.NoError(t, err)
	assert.Len(t, clients, len(seeder.DemoClients()))
}

func TestRun_ReturnsListenErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.GRPCAddr = "127.0.0.1:-1"

	err := run(context.Background(), cfg, quietLogger())

	assert.ErrorContains(t, err, "failed to listen on 127.0.0.1:-1")
}
