// Package matcher finds the company frequency record for a problem slug.
package matcher

import (
	"slices"

	"companyfinder/internal/dataset"
	"companyfinder/internal/slug"
)

// Status is the outcome of a match.
type Status string

const (
	Found           Status = "found"
	NotFound        Status = "not_found"
	DataUnavailable Status = "data_unavailable"
)

// How a Found result was located.
const (
	ByTitle       = "title"
	ByProblemName = "problem_name"
)

// Result is the outcome of matching one slug against a snapshot.
type Result struct {
	Status Status
	Slug   string

	// Set only when Status is Found.
	Title     string
	RecordID  string
	MatchedBy string
	Companies []dataset.CompanyEntry
}

// Match looks up slug in s.
//
// Company records are scanned first by normalized title, then problem
// records by normalized name, each in source order; the first hit wins.
// A name hit whose id has no company record ends the search as NotFound,
// as does a hit on a record without a company map.
func Match(slugText string, s *dataset.Snapshot) Result {
	if !s.Complete() {
		return Result{Status: DataUnavailable, Slug: slugText}
	}

	for _, rec := range s.Companies.Records() {
		if slug.Normalize(rec.Title) == slugText {
			return found(slugText, rec, ByTitle)
		}
	}

	for _, p := range s.Problems.Records() {
		if slug.Normalize(p.Name) != slugText {
			continue
		}
		if rec, ok := s.Companies.Get(p.ID); ok {
			return found(slugText, rec, ByProblemName)
		}
		break
	}

	return Result{Status: NotFound, Slug: slugText}
}

func found(slugText string, rec dataset.CompanyRecord, by string) Result {
	if !rec.HasCompanies {
		return Result{Status: NotFound, Slug: slugText}
	}
	title := rec.Title
	if title == "" {
		title = slugText
	}
	return Result{
		Status:    Found,
		Slug:      slugText,
		Title:     title,
		RecordID:  rec.ID,
		MatchedBy: by,
		Companies: SortCompanies(rec.Companies),
	}
}

// SortCompanies returns a copy of entries ordered by all-time frequency,
// highest first. Equal frequencies keep their source order.
func SortCompanies(entries []dataset.CompanyEntry) []dataset.CompanyEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b dataset.CompanyEntry) int {
		fa, fb := a.Stats.Float(dataset.WindowAllTime), b.Stats.Float(dataset.WindowAllTime)
		switch {
		case fa > fb:
			return -1
		case fa < fb:
			return 1
		}
		return 0
	})
	return out
}
