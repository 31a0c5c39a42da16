// Package cache decides when a dataset snapshot is still usable and
// persists snapshots in a key/value store.
package cache

import (
	"time"

	"companyfinder/internal/dataset"
)

// DefaultExpiry is how long a fetched snapshot stays fresh.
const DefaultExpiry = 24 * time.Hour

// ExpiryFromHours converts an hour count into an expiry window. Non-positive
// values fall back to DefaultExpiry.
func ExpiryFromHours(hours int) time.Duration {
	if hours <= 0 {
		return DefaultExpiry
	}
	return time.Duration(hours) * time.Hour
}

// IsFresh reports whether s can be used without refreshing: it must hold both
// recordsets and be strictly younger than expiry. Ages are compared in whole
// milliseconds, the resolution snapshots are stamped with.
func IsFresh(s *dataset.Snapshot, now time.Time, expiry time.Duration) bool {
	if !s.Complete() {
		return false
	}
	return now.UnixMilli()-s.FetchedAt.UnixMilli() < expiry.Milliseconds()
}
