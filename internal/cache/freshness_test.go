package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companyfinder/internal/dataset"
)

func testSnapshot(t *testing.T, fetchedAt time.Time) *dataset.Snapshot {
	t.Helper()
	companies, err := dataset.ParseCompanyRecordset([]byte(`{"1":{"title":"Two Sum","companies":{}}}`))
	require.NoError(t, err)
	problems, err := dataset.ParseProblemRecordset([]byte(`{"1":{"name":"Two Sum"}}`))
	require.NoError(t, err)
	return dataset.NewSnapshot(companies, problems, fetchedAt)
}

func TestIsFresh(t *testing.T) {
	fetched := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	snap := testSnapshot(t, fetched)
	window := 24 * time.Hour

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"just fetched", fetched, true},
		{"one millisecond short of expiry", fetched.Add(window - time.Millisecond), true},
		{"exactly at expiry", fetched.Add(window), false},
		{"past expiry", fetched.Add(window + time.Hour), false},
		{"clock behind fetch time", fetched.Add(-time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFresh(snap, tt.now, window))
		})
	}
}

func TestIsFreshIncompleteSnapshots(t *testing.T) {
	now := time.Now()
	full := testSnapshot(t, now)

	assert.False(t, IsFresh(nil, now, DefaultExpiry))
	assert.False(t, IsFresh(&dataset.Snapshot{Companies: full.Companies, FetchedAt: now}, now, DefaultExpiry))
	assert.False(t, IsFresh(&dataset.Snapshot{Problems: full.Problems, FetchedAt: now}, now, DefaultExpiry))
}

func TestExpiryFromHours(t *testing.T) {
	assert.Equal(t, DefaultExpiry, ExpiryFromHours(0))
	assert.Equal(t, DefaultExpiry, ExpiryFromHours(-3))
	assert.Equal(t, 6*time.Hour, ExpiryFromHours(6))
}
