package jobs

import (
	"context"
	"time"

	"companyfinder/internal/logger"
)

// Freshener keeps a dataset snapshot fresh.
type Freshener interface {
	EnsureFresh(ctx context.Context) <-chan error
}

// Refresher periodically refreshes the dataset when it goes stale.
type Refresher struct {
	finder   Freshener
	interval time.Duration
}

// NewRefresher creates a new refresher.
func NewRefresher(f Freshener, interval time.Duration) *Refresher {
	return &Refresher{finder: f, interval: interval}
}

// Start begins the background refresh loop. It returns when ctx is done.
func (r *Refresher) Start(ctx context.Context) {
	logger.Log.Info().Dur("interval", r.interval).Msg("dataset refresher started")

	// Run immediately on start
	r.check(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info().Msg("dataset refresher stopped")
			return
		case <-ticker.C:
			r.check(ctx)
		}
	}
}

// check waits for any refresh it triggers so ticks never stack up.
func (r *Refresher) check(ctx context.Context) {
	select {
	case err, ok := <-r.finder.EnsureFresh(ctx):
		if ok && err != nil {
			logger.Log.Warn().Err(err).Msg("scheduled refresh failed; keeping previous snapshot")
		}
	case <-ctx.Done():
	}
}
