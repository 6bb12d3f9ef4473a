package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	receiptshandler "github.com/FACorreiaa/smart-finance-receipts/internal/domain/receipts/handler"
	"github.com/FACorreiaa/smart-finance-receipts/pkg/config"
)

// NewLogger builds the process logger from configuration.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// Run starts the HTTP server, the dispatcher and the sweeper, and blocks until
// ctx is cancelled or the server fails.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	deps, err := InitDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Cleanup()

	if err := deps.Scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr(),
		Handler: deps.ReceiptsHandler.Routes(receiptshandler.Options{
			Metrics:            cfg.Observability.MetricsEnabled,
			AllowedOrigins:     cfg.Server.AllowedOrigins,
			RateLimitPerSecond: float64(cfg.Server.RateLimitPerSecond),
			RateLimitBurst:     cfg.Server.RateLimitBurst,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown", "error", err)
	}
	<-deps.Scheduler.Stop().Done()
	if err := deps.Dispatcher.Shutdown(shutdownCtx); err != nil {
		logger.Warn("receipt jobs still running at shutdown", "error", err)
	}

	logger.Info("shutdown complete")
	return runErr
}
