package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GoArmGo/PhotoSearch/internal/config"
	"github.com/GoArmGo/PhotoSearch/internal/handler"
	"github.com/GoArmGo/PhotoSearch/internal/metrics"
)

const shutdownTimeout = 30 * time.Second

func newRouter(cfg *config.Config, logger *slog.Logger, h *handler.SearchHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
		h.Routes(r)
	})
	return r
}

// runServer обслуживает HTTP до отмены ctx, затем завершает работу сервера
func runServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, h *handler.SearchHandler) error {
	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           newRouter(cfg, logger, h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("ошибка при запуске сервера: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, stopping http server")

	ctxServer, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("http server stopped")
	return nil
}
