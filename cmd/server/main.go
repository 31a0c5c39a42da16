package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"companyfinder/internal/app"
	"companyfinder/internal/config"
	"companyfinder/internal/jobs"
	"companyfinder/internal/logger"
	"companyfinder/internal/metrics"
	"companyfinder/internal/server"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.IsDev())
	log := logger.Log

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}
	defer a.Close()

	metrics.Init(a.Lookups, a.Finder.Age)

	// Background refresh keeps the snapshot inside its freshness window
	if cfg.RefreshInterval > 0 {
		refresher := jobs.NewRefresher(a.Finder, cfg.RefreshInterval)
		go refresher.Start(ctx)
	} else {
		a.Finder.EnsureFresh(ctx)
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(a.Finder, a.Sources)

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	log.Info().
		Str("addr", cfg.ServerAddr).
		Str("storage", cfg.StorageBackend).
		Int("sources", len(a.Sources)).
		Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	metrics.Flush()
	log.Info().Msg("server exited")
}
