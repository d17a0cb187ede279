package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"mood-recommender/handler"
	"mood-recommender/internal/app"
	"mood-recommender/internal/config"
	"mood-recommender/internal/logging"
	"mood-recommender/internal/metrics"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}
	logger := logging.Setup(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	ctx = logger.WithContext(ctx)

	m := metrics.New()
	h, err := app.NewHandler(ctx, cfg, app.SSMSecretLoader, handler.WithMetrics(m))
	if err != nil {
		logger.Error().Err(err).Msg("failed to create handler")
		os.Exit(1)
	}

	server := &http.Server{
		Addr:        cfg.Address,
		Handler:     handler.NewRouter(h, handler.RouterConfig{CORSAllowedOrigins: cfg.CORSAllowedOrigins}),
		ReadTimeout: 15 * time.Second,
		// A recommendation may take the whole upstream budget.
		WriteTimeout: cfg.OpenAI.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("address", cfg.Address).Str("model", cfg.OpenAI.Model).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error().Err(err).Msg("server failed")
		os.Exit(1)
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}
