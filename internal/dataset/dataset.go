// Package dataset holds the two recordsets the finder matches against and
// the immutable snapshot that bundles them.
package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Frequency windows as they appear in the company recordset.
const (
	WindowAllTime   = "alltime"
	WindowSixMonths = "6months"
	WindowOneYear   = "1year"
	WindowTwoYear   = "2year"
)

// FrequencyStats holds the numeric strings reported for one company.
// Empty means the field was absent.
type FrequencyStats struct {
	AllTime   string `json:"alltime,omitempty"`
	SixMonths string `json:"6months,omitempty"`
	OneYear   string `json:"1year,omitempty"`
	TwoYear   string `json:"2year,omitempty"`
}

// Float returns the parsed value for a window. Absent, unparseable and
// non-finite values ("NaN", "Inf", overflowing literals like "1e400") are 0.
func (f FrequencyStats) Float(window string) float64 {
	var raw string
	switch window {
	case WindowAllTime:
		raw = f.AllTime
	case WindowSixMonths:
		raw = f.SixMonths
	case WindowOneYear:
		raw = f.OneYear
	case WindowTwoYear:
		raw = f.TwoYear
	}
	return parseFloat(raw)
}

func parseFloat(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// CompanyEntry is one company in a record's company map.
type CompanyEntry struct {
	Key   string
	Stats FrequencyStats
}

// CompanyRecord is one problem in the company recordset.
type CompanyRecord struct {
	ID        string
	Title     string
	Companies []CompanyEntry
	// HasCompanies is false when the record carried no company map at all.
	HasCompanies bool
}

// ProblemRecord is one problem in the problem recordset.
type ProblemRecord struct {
	ID          string
	Name        string
	DisplayText string
}

// CompanyRecordset maps problem ids to company frequency records, in the
// order the source document listed them.
type CompanyRecordset struct {
	records []CompanyRecord
	index   map[string]int
	raw     []byte
}

// Records returns the records in source order.
func (r *CompanyRecordset) Records() []CompanyRecord {
	if r == nil {
		return nil
	}
	return r.records
}

// Get looks up a record by problem id.
func (r *CompanyRecordset) Get(id string) (CompanyRecord, bool) {
	if r == nil {
		return CompanyRecord{}, false
	}
	i, ok := r.index[id]
	if !ok {
		return CompanyRecord{}, false
	}
	return r.records[i], true
}

// Len returns the number of records.
func (r *CompanyRecordset) Len() int {
	if r == nil {
		return 0
	}
	return len(r.records)
}

// Raw returns the document the recordset was decoded from.
func (r *CompanyRecordset) Raw() []byte {
	if r == nil {
		return nil
	}
	return r.raw
}

// ProblemRecordset maps problem ids to problem metadata, in source order.
type ProblemRecordset struct {
	records []ProblemRecord
	index   map[string]int
	raw     []byte
}

// Records returns the records in source order.
func (r *ProblemRecordset) Records() []ProblemRecord {
	if r == nil {
		return nil
	}
	return r.records
}

// Get looks up a record by problem id.
func (r *ProblemRecordset) Get(id string) (ProblemRecord, bool) {
	if r == nil {
		return ProblemRecord{}, false
	}
	i, ok := r.index[id]
	if !ok {
		return ProblemRecord{}, false
	}
	return r.records[i], true
}

// Len returns the number of records.
func (r *ProblemRecordset) Len() int {
	if r == nil {
		return 0
	}
	return len(r.records)
}

// Raw returns the document the recordset was decoded from.
func (r *ProblemRecordset) Raw() []byte {
	if r == nil {
		return nil
	}
	return r.raw
}

// Snapshot bundles both recordsets with the time they were fetched.
// A Snapshot is never modified after construction; refreshed data always
// arrives as a new Snapshot.
type Snapshot struct {
	ID        uuid.UUID
	Companies *CompanyRecordset
	Problems  *ProblemRecordset
	FetchedAt time.Time
}

// NewSnapshot bundles two recordsets fetched at the given time. FetchedAt is
// kept at millisecond precision, the resolution it is persisted with.
func NewSnapshot(companies *CompanyRecordset, problems *ProblemRecordset, fetchedAt time.Time) *Snapshot {
	return &Snapshot{
		ID:        uuid.New(),
		Companies: companies,
		Problems:  problems,
		FetchedAt: time.UnixMilli(fetchedAt.UnixMilli()),
	}
}

// Complete reports whether both recordsets are present.
func (s *Snapshot) Complete() bool {
	return s != nil && s.Companies != nil && s.Problems != nil
}

// Age returns how long ago the snapshot was fetched.
func (s *Snapshot) Age(now time.Time) time.Duration {
	if s == nil {
		return 0
	}
	return now.Sub(s.FetchedAt)
}
