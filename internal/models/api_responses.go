package models

import (
	"time"

	"github.com/google/uuid"
)

// SnapshotInfo describes the snapshot an answer was computed from.
type SnapshotInfo struct {
	ID        uuid.UUID `json:"id"`
	FetchedAt time.Time `json:"fetched_at"`
	Fresh     bool      `json:"fresh"`
}

// MatchResponse contains the companies that asked a problem.
type MatchResponse struct {
	Slug      string        `json:"slug"`
	Status    string        `json:"status"`
	Title     string        `json:"title,omitempty"`
	MatchedBy string        `json:"matched_by,omitempty"`
	Companies []CompanyView `json:"companies"`
	SearchURL string        `json:"search_url"`
	Snapshot  *SnapshotInfo `json:"snapshot,omitempty"`
}

// StatusResponse reports the state of the served snapshot.
type StatusResponse struct {
	Loaded        bool          `json:"loaded"`
	Snapshot      *SnapshotInfo `json:"snapshot,omitempty"`
	AgeSeconds    float64       `json:"age_seconds,omitempty"`
	ExpirySeconds float64       `json:"expiry_seconds"`
	Companies     int           `json:"companies"`
	Problems      int           `json:"problems"`
	Sources       []string      `json:"sources"`
}

// RefreshResponse is returned after a successful refresh.
type RefreshResponse struct {
	Snapshot  SnapshotInfo `json:"snapshot"`
	Companies int          `json:"companies"`
	Problems  int          `json:"problems"`
}
