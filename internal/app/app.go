// Package app wires configuration into a ready Finder for the server and
// the CLI.
package app

import (
	"context"
	"errors"
	"fmt"

	"companyfinder/internal/cache"
	"companyfinder/internal/config"
	"companyfinder/internal/db"
	"companyfinder/internal/fetcher"
	"companyfinder/internal/finder"
	"companyfinder/internal/logger"
	"companyfinder/internal/metrics"
	"companyfinder/internal/storage"
)

// App holds the long-lived dependencies built from a Config.
type App struct {
	Finder  *finder.Finder
	Sources []fetcher.Source
	Lookups metrics.LookupStore

	closers []func() error
}

// New opens the configured storage backend, loads the persisted snapshot
// and returns the assembled App. Close releases the backend.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	sources, err := config.LoadSources(cfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}

	a := &App{Sources: sources}

	kv, err := a.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, kv.Close)

	fetch := fetcher.New(sources, cfg.FetchTimeout, fetcher.WithLogger(logger.Log.With().Str("component", "fetcher").Logger()))
	a.Finder = finder.New(fetch, cache.NewStore(kv),
		finder.WithExpiry(cfg.CacheExpiry),
		finder.WithLogger(logger.Log.With().Str("component", "finder").Logger()),
	)

	// A broken cache is not fatal; the next refresh replaces it.
	if snap, err := a.Finder.Load(ctx); err != nil {
		logger.Log.Warn().Err(err).Msg("ignoring unreadable cached snapshot")
	} else if snap != nil {
		logger.Log.Info().
			Str("snapshot", snap.ID.String()).
			Time("fetched_at", snap.FetchedAt).
			Bool("fresh", a.Finder.Fresh()).
			Msg("loaded cached snapshot")
	}

	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.StorageBackend != storage.BackendPostgres {
		kv, err := storage.Open(storage.Options{
			Backend:  cfg.StorageBackend,
			FilePath: cfg.StorageFile,
			RedisURL: cfg.RedisURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open %s storage: %w", cfg.StorageBackend, err)
		}
		a.Lookups = metrics.NewMemoryLookups()
		return kv, nil
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required for the postgres backend")
	}
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Log.Info().Msg("migrations completed successfully")

	a.Lookups = database
	a.closers = append(a.closers, func() error {
		database.Close()
		return nil
	})
	return db.NewKVStore(database), nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}
