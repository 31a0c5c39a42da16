package models

import "time"

// Slug lookup outcome constants
const (
	OutcomeFound           = "found"
	OutcomeNotFound        = "not_found"
	OutcomeDataUnavailable = "data_unavailable"
	OutcomeUnidentified    = "unidentified"
)

// SlugLookup represents a per-slug hit count by outcome.
type SlugLookup struct {
	Slug       string
	Outcome    string
	Count      int64
	LastSeenAt time.Time
}
