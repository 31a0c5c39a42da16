// Package finder owns the dataset snapshot in use: it loads it from the
// cache, replaces it after refreshes, and answers lookups against it.
package finder

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"companyfinder/internal/cache"
	"companyfinder/internal/dataset"
	"companyfinder/internal/matcher"
	"companyfinder/internal/metrics"
	"companyfinder/internal/models"
	"companyfinder/internal/page"
)

// ErrUnidentifiedPage is returned when no slug can be derived from a page.
var ErrUnidentifiedPage = errors.New("cannot identify problem page")

// Fetcher produces complete snapshots.
type Fetcher interface {
	Fetch(ctx context.Context) (*dataset.Snapshot, error)
}

// Lookup is the answer for one page.
type Lookup struct {
	Slug     string
	Result   matcher.Result
	Snapshot *dataset.Snapshot
	Fresh    bool
}

// Finder is safe for concurrent use. Readers never block on a refresh.
type Finder struct {
	fetcher Fetcher
	store   *cache.Store
	expiry  time.Duration
	now     func() time.Time
	log     zerolog.Logger

	current atomic.Pointer[dataset.Snapshot]

	// publishMu orders publication and persistence; view delivery holds it
	// for reading. seq numbers refreshes by start; published is the seq of
	// the snapshot being served.
	publishMu sync.RWMutex
	seq       atomic.Uint64
	published uint64

	refreshes singleflight.Group

	viewsMu  sync.Mutex
	views    map[uint64]*view
	nextView uint64
}

// Option configures a Finder.
type Option func(*Finder)

// WithExpiry sets the freshness window.
func WithExpiry(d time.Duration) Option {
	return func(f *Finder) {
		if d > 0 {
			f.expiry = d
		}
	}
}

// WithClock overrides the clock used for freshness checks.
func WithClock(now func() time.Time) Option {
	return func(f *Finder) { f.now = now }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Finder) { f.log = l }
}

// New creates a Finder with no snapshot. Call Load to pick up a persisted one.
func New(fetcher Fetcher, store *cache.Store, opts ...Option) *Finder {
	f := &Finder{
		fetcher: fetcher,
		store:   store,
		expiry:  cache.DefaultExpiry,
		now:     time.Now,
		log:     zerolog.Nop(),
		views:   make(map[uint64]*view),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Load reads the persisted snapshot and serves it unless a refresh has
// already published one. A stale snapshot is kept; callers decide whether to
// refresh.
func (f *Finder) Load(ctx context.Context) (*dataset.Snapshot, error) {
	snap, err := f.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}

	f.publishMu.Lock()
	defer f.publishMu.Unlock()
	if f.published == 0 && f.current.Load() == nil {
		f.current.Store(snap)
	}
	return f.current.Load(), nil
}

// Snapshot returns the snapshot being served, or nil.
func (f *Finder) Snapshot() *dataset.Snapshot {
	return f.current.Load()
}

// Expiry returns the freshness window.
func (f *Finder) Expiry() time.Duration {
	return f.expiry
}

// Fresh reports whether the served snapshot is within the freshness window.
func (f *Finder) Fresh() bool {
	return cache.IsFresh(f.current.Load(), f.now(), f.expiry)
}

// Age returns the age of the served snapshot, or -1 when there is none.
func (f *Finder) Age() time.Duration {
	snap := f.current.Load()
	if snap == nil {
		return -1
	}
	return snap.Age(f.now())
}

// Refresh fetches a new snapshot and publishes it. On failure the served
// snapshot is left untouched. A result from a refresh that started before
// the one already published is dropped, and the newer snapshot is returned.
func (f *Finder) Refresh(ctx context.Context) (*dataset.Snapshot, error) {
	seq := f.seq.Add(1)

	snap, err := f.fetcher.Fetch(ctx)
	if err != nil {
		metrics.RecordRefresh(metrics.RefreshFailed)
		f.log.Error().Err(err).Msg("dataset refresh failed")
		return nil, err
	}

	published, ok := f.publish(ctx, seq, snap)
	if !ok {
		return published, nil
	}
	f.notify(seq, published)
	return published, nil
}

func (f *Finder) publish(ctx context.Context, seq uint64, snap *dataset.Snapshot) (*dataset.Snapshot, bool) {
	f.publishMu.Lock()
	defer f.publishMu.Unlock()

	if seq < f.published {
		metrics.RecordRefresh(metrics.RefreshSuperseded)
		f.log.Info().Uint64("seq", seq).Uint64("published", f.published).Msg("discarding superseded refresh")
		return f.current.Load(), false
	}

	f.current.Store(snap)
	f.published = seq
	metrics.RecordRefresh(metrics.RefreshPublished)
	f.log.Info().
		Str("snapshot", snap.ID.String()).
		Int("companies", snap.Companies.Len()).
		Int("problems", snap.Problems.Len()).
		Msg("dataset snapshot published")

	if err := f.store.Save(ctx, snap); err != nil {
		f.log.Warn().Err(err).Msg("snapshot not cached; serving it from memory")
	}
	return snap, true
}

// EnsureFresh starts a background refresh when the served snapshot is stale
// or missing. Concurrent callers share one in-flight refresh. The returned
// channel receives the refresh outcome and is then closed; it is closed
// without a value when no refresh was needed.
func (f *Finder) EnsureFresh(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	if f.Fresh() {
		close(done)
		return done
	}

	res := f.refreshes.DoChan("refresh", func() (any, error) {
		return f.Refresh(context.WithoutCancel(ctx))
	})
	go func() {
		r := <-res
		done <- r.Err
		close(done)
	}()
	return done
}

// Resolve derives the slug for a page and matches it against the served
// snapshot.
func (f *Finder) Resolve(_ context.Context, pc page.Context) (Lookup, error) {
	s, ok := page.ExtractSlug(pc)
	if !ok {
		metrics.RecordLookup("", models.OutcomeUnidentified)
		return Lookup{}, ErrUnidentifiedPage
	}

	snap := f.current.Load()
	result := matcher.Match(s, snap)
	metrics.RecordLookup(s, string(result.Status))

	return Lookup{
		Slug:     s,
		Result:   result,
		Snapshot: snap,
		Fresh:    cache.IsFresh(snap, f.now(), f.expiry),
	}, nil
}

// Clear drops the served and persisted snapshot. Refreshes that started
// before Clear do not publish afterwards.
func (f *Finder) Clear(ctx context.Context) error {
	f.publishMu.Lock()
	defer f.publishMu.Unlock()

	if err := f.store.Clear(ctx); err != nil {
		return err
	}
	f.current.Store(nil)
	f.published = f.seq.Add(1)
	return nil
}
