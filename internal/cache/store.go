package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"companyfinder/internal/dataset"
	"companyfinder/internal/storage"
)

// Keys the snapshot is persisted under.
const (
	KeyCompanies = "companiesData"
	KeyProblems  = "problemData"
	KeyFetchedAt = "lastCacheTime"
)

var snapshotKeys = []string{KeyCompanies, KeyProblems, KeyFetchedAt}

// Store reads and writes whole snapshots.
type Store struct {
	kv storage.Store
}

// NewStore wraps a key/value store.
func NewStore(kv storage.Store) *Store {
	return &Store{kv: kv}
}

// Load returns the persisted snapshot, or nil when any of its keys is
// missing or empty.
func (s *Store) Load(ctx context.Context) (*dataset.Snapshot, error) {
	values, err := s.kv.Get(ctx, snapshotKeys...)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}
	for _, k := range snapshotKeys {
		if len(values[k]) == 0 || string(values[k]) == "null" {
			return nil, nil
		}
	}

	fetchedAt, err := strconv.ParseInt(strings.TrimSpace(string(values[KeyFetchedAt])), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyFetchedAt, err)
	}
	companies, err := dataset.ParseCompanyRecordset(values[KeyCompanies])
	if err != nil {
		return nil, err
	}
	problems, err := dataset.ParseProblemRecordset(values[KeyProblems])
	if err != nil {
		return nil, err
	}

	return dataset.NewSnapshot(companies, problems, time.UnixMilli(fetchedAt)), nil
}

// Save writes both recordsets and the fetch time in a single Set call.
func (s *Store) Save(ctx context.Context, snap *dataset.Snapshot) error {
	if !snap.Complete() {
		return fmt.Errorf("refusing to persist incomplete snapshot")
	}
	err := s.kv.Set(ctx, map[string][]byte{
		KeyCompanies: snap.Companies.Raw(),
		KeyProblems:  snap.Problems.Raw(),
		KeyFetchedAt: []byte(strconv.FormatInt(snap.FetchedAt.UnixMilli(), 10)),
	})
	if err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Clear removes the persisted snapshot.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, snapshotKeys...); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
