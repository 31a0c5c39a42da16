package metrics

import (
	"context"
	"sync"
	"time"

	"companyfinder/internal/models"
)

// MaxMemoryLookups bounds the number of distinct slug/outcome counters kept
// in memory. Lookups for new slugs past the bound count under OtherSlug.
const MaxMemoryLookups = 10000

// OtherSlug labels lookups that did not fit under MaxMemoryLookups.
const OtherSlug = "_other"

type lookupKey struct {
	slug    string
	outcome string
}

// MemoryLookups keeps slug lookup counters in process memory. It backs the
// collector when no database is configured.
type MemoryLookups struct {
	mu      sync.Mutex
	limit   int
	lookups map[lookupKey]*models.SlugLookup
}

// NewMemoryLookups creates an empty counter set bounded by MaxMemoryLookups.
func NewMemoryLookups() *MemoryLookups {
	return newMemoryLookups(MaxMemoryLookups)
}

func newMemoryLookups(limit int) *MemoryLookups {
	return &MemoryLookups{limit: limit, lookups: make(map[lookupKey]*models.SlugLookup)}
}

// IncrementLookup bumps the counter for slug and outcome.
func (m *MemoryLookups) IncrementLookup(_ context.Context, slug, outcome string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := lookupKey{slug: slug, outcome: outcome}
	l, ok := m.lookups[k]
	if !ok && len(m.lookups) >= m.limit {
		k = lookupKey{slug: OtherSlug, outcome: outcome}
		l, ok = m.lookups[k]
		slug = OtherSlug
	}
	if !ok {
		l = &models.SlugLookup{Slug: slug, Outcome: outcome}
		m.lookups[k] = l
	}
	l.Count++
	l.LastSeenAt = time.Now()
	return nil
}

// GetAllLookups returns a copy of every counter.
func (m *MemoryLookups) GetAllLookups(_ context.Context) ([]models.SlugLookup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.SlugLookup, 0, len(m.lookups))
	for _, l := range m.lookups {
		out = append(out, *l)
	}
	return out, nil
}
