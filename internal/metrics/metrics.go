package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"companyfinder/internal/logger"
	"companyfinder/internal/models"
)

var (
	slugLookupDesc = prometheus.NewDesc(
		"companyfinder_slug_lookups_total",
		"Total slug lookup count by outcome",
		[]string{"slug", "outcome"},
		nil,
	)

	sourceFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "companyfinder_source_fetches_total",
		Help: "Recordset downloads by source and result",
	}, []string{"source", "recordset", "result"})

	refreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "companyfinder_refreshes_total",
		Help: "Snapshot refreshes by result",
	}, []string{"result"})
)

// Refresh results.
const (
	RefreshPublished  = "published"
	RefreshFailed     = "failed"
	RefreshSuperseded = "superseded"
)

// LookupStore persists slug lookup counters.
type LookupStore interface {
	IncrementLookup(ctx context.Context, slug, outcome string) error
	GetAllLookups(ctx context.Context) ([]models.SlugLookup, error)
}

// LookupCollector is a custom Prometheus collector that reads slug lookup
// counts from its store on each scrape.
type LookupCollector struct {
	store LookupStore
}

// Describe sends the metric descriptor to the channel.
func (c *LookupCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- slugLookupDesc
}

// Collect reads all slug lookups and emits them as counters.
func (c *LookupCollector) Collect(ch chan<- prometheus.Metric) {
	lookups, err := c.store.GetAllLookups(context.Background())
	if err != nil {
		logger.Log.Error().Err(err).Msg("failed to collect slug lookup metrics")
		return
	}
	for _, l := range lookups {
		ch <- prometheus.MustNewConstMetric(
			slugLookupDesc,
			prometheus.CounterValue,
			float64(l.Count),
			l.Slug,
			l.Outcome,
		)
	}
}

// Recorder provides async slug lookup recording.
type Recorder struct {
	store LookupStore
	wg    sync.WaitGroup
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the collectors and initializes the recorder. snapshotAge
// reports the age of the snapshot currently served, or a negative value when
// there is none. Must be called once at startup.
func Init(store LookupStore, snapshotAge func() time.Duration) {
	recorderOnce.Do(func() {
		recorder = &Recorder{store: store}
		prometheus.MustRegister(
			&LookupCollector{store: store},
			sourceFetches,
			refreshes,
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "companyfinder_snapshot_age_seconds",
				Help: "Age of the served dataset snapshot, -1 when none is loaded",
			}, func() float64 {
				age := snapshotAge()
				if age < 0 {
					return -1
				}
				return age.Seconds()
			}),
		)
	})
}

// RecordLookup asynchronously records a slug lookup outcome.
func RecordLookup(slug, outcome string) {
	if recorder == nil {
		return
	}
	recorder.wg.Add(1)
	go func() {
		defer recorder.wg.Done()
		if err := recorder.store.IncrementLookup(context.Background(), slug, outcome); err != nil {
			logger.Log.Error().Err(err).Str("slug", slug).Str("outcome", outcome).Msg("failed to record slug lookup")
		}
	}()
}

// Flush waits for pending lookup writes.
func Flush() {
	if recorder != nil {
		recorder.wg.Wait()
	}
}

// RecordSourceFetch counts one recordset download attempt.
func RecordSourceFetch(source, recordset string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	sourceFetches.WithLabelValues(source, recordset, result).Inc()
}

// RecordRefresh counts one refresh outcome.
func RecordRefresh(result string) {
	refreshes.WithLabelValues(result).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
