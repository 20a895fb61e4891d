package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/PratikDhanave/heartbeat-collector/internal/config"
	"github.com/PratikDhanave/heartbeat-collector/internal/httpserver"
	"github.com/PratikDhanave/heartbeat-collector/internal/logging"
	"github.com/PratikDhanave/heartbeat-collector/internal/metrics"
	"github.com/PratikDhanave/heartbeat-collector/internal/store"
)

// version is set at build time: -ldflags "-X main.version=1.4.0".
// VERSION in the environment overrides it.
var version = "0.0.0-dev"

func main() {
	if err := run(); err != nil {
		slog.Error("heartbeat exited", "error", err)
		os.Exit(1)
	}
}

// run boots the service: config → logger → DB → schema → HTTP server,
// then blocks until SIGINT/SIGTERM and drains in-flight requests.
func run() error {
	cfg, err := config.Load(version)
	if err != nil {
		return err
	}

	level, _ := cfg.SlogLevel() // validated by Load
	logger := logging.New(os.Stdout, level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.DBDriver, cfg.DBURL)
	if err != nil {
		return err
	}
	defer st.Close()

	// Ensure the table exists so a fresh database is enough to start.
	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}

	router := httpserver.NewRouter(cfg, st, metrics.New(), logger)
	srv := httpserver.NewServer(cfg.HTTPAddr, router)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", cfg.HTTPAddr, "driver", cfg.DBDriver, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
