// Package fetcher downloads both recordsets from an ordered list of sources.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"companyfinder/internal/dataset"
	"companyfinder/internal/metrics"
)

// ErrFetchFailed is returned when at least one recordset could not be
// retrieved from any source.
var ErrFetchFailed = errors.New("dataset fetch failed")

// Recordset names used in logs and metrics.
const (
	RecordsetCompanies = "companies"
	RecordsetProblems  = "problems"
)

// Source is one provider of both recordsets.
type Source struct {
	Name         string `yaml:"name"`
	CompaniesURL string `yaml:"companies_url"`
	ProblemsURL  string `yaml:"problems_url"`
}

// DefaultSources are tried when no sources are configured: the GitHub mirror
// first, the published site second.
var DefaultSources = []Source{
	{
		Name:         "github",
		CompaniesURL: "https://raw.githubusercontent.com/farneet24/Leetcode-Company-Wise-Questions-Website/master/preprocessed_companies.json",
		ProblemsURL:  "https://raw.githubusercontent.com/farneet24/Leetcode-Company-Wise-Questions-Website/master/problem_data.json",
	},
	{
		Name:         "netlify",
		CompaniesURL: "https://company-wise-leetcode-farneet.netlify.app/preprocessed_companies.json",
		ProblemsURL:  "https://company-wise-leetcode-farneet.netlify.app/problem_data.json",
	},
}

// Fetcher retrieves snapshots. It is safe for concurrent use.
type Fetcher struct {
	client  *resty.Client
	sources []Source
	now     func() time.Time
	log     zerolog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClock overrides the clock used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// WithLogger sets the logger for per-source failures.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Fetcher) { f.log = l }
}

// WithClient replaces the HTTP client.
func WithClient(c *resty.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// New creates a Fetcher over sources, tried in order. A nil or empty list
// means DefaultSources.
func New(sources []Source, timeout time.Duration, opts ...Option) *Fetcher {
	if len(sources) == 0 {
		sources = DefaultSources
	}
	client := resty.New()
	client.SetHeader("Accept", "application/json")
	client.SetHeader("User-Agent", "companyfinder/1.0")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	f := &Fetcher{
		client:  client,
		sources: append([]Source(nil), sources...),
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Sources returns the configured source list.
func (f *Fetcher) Sources() []Source {
	return append([]Source(nil), f.sources...)
}

// Fetch walks the sources until both recordsets are populated. Each pass only
// requests what is still missing, and both requests of a pass run
// concurrently without cancelling each other. The walk stops at the first
// source that completes the pair, so later sources are not contacted.
func (f *Fetcher) Fetch(ctx context.Context) (*dataset.Snapshot, error) {
	var (
		companies *dataset.CompanyRecordset
		problems  *dataset.ProblemRecordset
		errs      []error
	)

	for _, src := range f.sources {
		if companies != nil && problems != nil {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
		}

		// A plain Group: one failed request must not cancel its sibling.
		var g errgroup.Group
		var gotCompanies *dataset.CompanyRecordset
		var gotProblems *dataset.ProblemRecordset
		var companiesErr, problemsErr error

		if companies == nil {
			g.Go(func() error {
				body, err := f.get(ctx, src.CompaniesURL)
				if err == nil {
					gotCompanies, err = dataset.ParseCompanyRecordset(body)
				}
				companiesErr = err
				return nil
			})
		}
		if problems == nil {
			g.Go(func() error {
				body, err := f.get(ctx, src.ProblemsURL)
				if err == nil {
					gotProblems, err = dataset.ParseProblemRecordset(body)
				}
				problemsErr = err
				return nil
			})
		}
		_ = g.Wait()

		if companies == nil {
			if companiesErr != nil {
				errs = append(errs, f.failed(src, RecordsetCompanies, companiesErr))
			} else {
				companies = gotCompanies
				metrics.RecordSourceFetch(src.Name, RecordsetCompanies, true)
			}
		}
		if problems == nil {
			if problemsErr != nil {
				errs = append(errs, f.failed(src, RecordsetProblems, problemsErr))
			} else {
				problems = gotProblems
				metrics.RecordSourceFetch(src.Name, RecordsetProblems, true)
			}
		}
	}

	if companies == nil || problems == nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, errors.Join(errs...))
	}
	return dataset.NewSnapshot(companies, problems, f.now()), nil
}

func (f *Fetcher) failed(src Source, recordset string, err error) error {
	metrics.RecordSourceFetch(src.Name, recordset, false)
	f.log.Warn().Err(err).Str("source", src.Name).Str("recordset", recordset).Msg("recordset fetch failed")
	return fmt.Errorf("%s %s: %w", src.Name, recordset, err)
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("no url configured")
	}
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
