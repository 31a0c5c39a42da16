package models

import (
	"github.com/samber/lo"

	"companyfinder/internal/dataset"
	"companyfinder/internal/matcher"
)

// NewSnapshotInfo describes s, or returns nil when there is no snapshot.
func NewSnapshotInfo(s *dataset.Snapshot, fresh bool) *SnapshotInfo {
	if s == nil {
		return nil
	}
	return &SnapshotInfo{ID: s.ID, FetchedAt: s.FetchedAt, Fresh: fresh}
}

// NewMatchResponse renders a match result with links rooted at site.
func NewMatchResponse(site string, r matcher.Result, s *dataset.Snapshot, fresh bool) MatchResponse {
	return MatchResponse{
		Slug:      r.Slug,
		Status:    string(r.Status),
		Title:     r.Title,
		MatchedBy: r.MatchedBy,
		Companies: lo.Map(r.Companies, func(e dataset.CompanyEntry, _ int) CompanyView {
			return NewCompanyView(site, e)
		}),
		SearchURL: SearchURL(site, r.Slug),
		Snapshot:  NewSnapshotInfo(s, fresh),
	}
}
