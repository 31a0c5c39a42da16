// Package testutil provides test utilities and helpers.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"companyfinder/internal/cache"
	"companyfinder/internal/fetcher"
	"companyfinder/internal/finder"
	"companyfinder/internal/storage"
)

// Sample recordsets shaped like the published datasets.
const (
	CompaniesJSON = `{
  "1": {"title": "Two Sum", "companies": {
    "google": {"alltime": "1.8", "1year": "0.5"},
    "amazon": {"alltime": "2.5", "6months": "1", "1year": "1.2", "2year": "2"},
    "goldman-sachs": {"alltime": "1.8"}
  }},
  "20": {"title": "Valid Parentheses", "companies": {"meta": {"alltime": "4"}}},
  "1234": {"companies": {"microsoft": {"alltime": "0.7"}}}
}`
	ProblemsJSON = `{
  "1": {"name": "Two Sum", "displayText": "1. Two Sum"},
  "20": {"name": "Valid Parentheses", "displayText": "20. Valid Parentheses"},
  "1234": {"name": "Replace the Substring for Balanced String", "displayText": "1234. Replace the Substring for Balanced String"}
}`
)

// DatasetServer serves both recordsets over HTTP and counts requests.
type DatasetServer struct {
	*httptest.Server

	mu        sync.Mutex
	requests  int
	companies string
	problems  string
	fail      bool
}

// NewDatasetServer starts a server for the sample recordsets. It is closed
// when the test ends.
func NewDatasetServer(t *testing.T) *DatasetServer {
	t.Helper()
	ds := &DatasetServer{companies: CompaniesJSON, problems: ProblemsJSON}
	ds.Server = httptest.NewServer(http.HandlerFunc(ds.serve))
	t.Cleanup(ds.Close)
	return ds
}

func (ds *DatasetServer) serve(w http.ResponseWriter, r *http.Request) {
	ds.mu.Lock()
	ds.requests++
	fail, companies, problems := ds.fail, ds.companies, ds.problems
	ds.mu.Unlock()

	if fail {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/companies.json":
		_, _ = w.Write([]byte(companies))
	case "/problems.json":
		_, _ = w.Write([]byte(problems))
	default:
		http.NotFound(w, r)
	}
}

// SetFailing makes every request fail with 503.
func (ds *DatasetServer) SetFailing(fail bool) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.fail = fail
}

// Requests returns the number of requests served.
func (ds *DatasetServer) Requests() int {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.requests
}

// Source describes the server as a dataset source.
func (ds *DatasetServer) Source(name string) fetcher.Source {
	return fetcher.Source{
		Name:         name,
		CompaniesURL: ds.URL + "/companies.json",
		ProblemsURL:  ds.URL + "/problems.json",
	}
}

// NewFinder creates a Finder over sources with an in-memory cache.
func NewFinder(t *testing.T, sources ...fetcher.Source) *finder.Finder {
	t.Helper()
	return finder.New(fetcher.New(sources, 5*time.Second), cache.NewStore(storage.NewMemory()))
}
