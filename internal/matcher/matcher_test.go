package matcher

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companyfinder/internal/dataset"
)

func snapshot(t *testing.T, companies, problems string) *dataset.Snapshot {
	t.Helper()
	c, err := dataset.ParseCompanyRecordset([]byte(companies))
	require.NoError(t, err)
	p, err := dataset.ParseProblemRecordset([]byte(problems))
	require.NoError(t, err)
	return dataset.NewSnapshot(c, p, time.Now())
}

func keys(entries []dataset.CompanyEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out
}

func TestMatchByTitle(t *testing.T) {
	snap := snapshot(t,
		`{"1":{"title":"Two Sum","companies":{"google":{"alltime":"1.8"},"amazon":{"alltime":"2.5"}}}}`,
		`{}`)

	got := Match("two-sum", snap)
	require.Equal(t, Found, got.Status)
	assert.Equal(t, "Two Sum", got.Title)
	assert.Equal(t, "1", got.RecordID)
	assert.Equal(t, ByTitle, got.MatchedBy)
	if diff := cmp.Diff([]string{"amazon", "google"}, keys(got.Companies)); diff != "" {
		t.Errorf("company order mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchByProblemName(t *testing.T) {
	snap := snapshot(t,
		`{"1234":{"title":"","companies":{"meta":{"alltime":"3"}}}}`,
		`{"1":{"name":"Two Sum"},"1234":{"name":"Replace the Substring for Balanced String"}}`)

	got := Match("replace-the-substring-for-balanced-string", snap)
	require.Equal(t, Found, got.Status)
	assert.Equal(t, ByProblemName, got.MatchedBy)
	assert.Equal(t, "1234", got.RecordID)
	assert.Equal(t, "replace-the-substring-for-balanced-string", got.Title, "empty title falls back to slug")
	assert.Equal(t, []string{"meta"}, keys(got.Companies))
}

func TestMatchOutcomes(t *testing.T) {
	snap := snapshot(t,
		`{"1":{"title":"Two Sum","companies":{}}}`,
		`{"2":{"name":"Add Two Numbers"}}`)
	withoutMap := snapshot(t, `{"15":{"title":"3Sum"},"16":{"title":"Three Sum","companies":null}}`, `{}`)

	tests := []struct {
		name string
		slug string
		snap *dataset.Snapshot
		want Status
	}{
		{"nonexistent problem", "nonexistent-problem", snap, NotFound},
		{"name hit without company record", "add-two-numbers", snap, NotFound},
		{"nil snapshot", "two-sum", nil, DataUnavailable},
		{"missing problems", "two-sum", &dataset.Snapshot{Companies: snap.Companies}, DataUnavailable},
		{"missing companies", "two-sum", &dataset.Snapshot{Problems: snap.Problems}, DataUnavailable},
		{"empty companies map still found", "two-sum", snap, Found},
		{"record without companies map", "three-sum", withoutMap, NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.slug, tt.snap)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.slug, got.Slug)
		})
	}
}

func TestMatchFirstCollisionWins(t *testing.T) {
	snap := snapshot(t,
		`{"9":{"title":"Two  Sum!","companies":{"first":{}}},"1":{"title":"two sum","companies":{"second":{}}}}`,
		`{}`)

	got := Match("two-sum", snap)
	require.Equal(t, Found, got.Status)
	assert.Equal(t, "9", got.RecordID, "document order decides, not id order")
}

func TestMatchNameScanStopsAtFirstHit(t *testing.T) {
	snap := snapshot(t,
		`{"20":{"title":"Something Else","companies":{"apple":{"alltime":"1"}}}}`,
		`{"10":{"name":"Two Sum"},"20":{"name":"Two Sum"}}`)

	assert.Equal(t, NotFound, Match("two-sum", snap).Status)
}

func TestMatchTitleBeatsProblemName(t *testing.T) {
	snap := snapshot(t,
		`{"5":{"title":"Other","companies":{"b":{}}},"7":{"title":"Two Sum","companies":{"a":{}}}}`,
		`{"5":{"name":"Two Sum"}}`)

	got := Match("two-sum", snap)
	assert.Equal(t, "7", got.RecordID)
	assert.Equal(t, ByTitle, got.MatchedBy)
}

func TestSortCompanies(t *testing.T) {
	entries := []dataset.CompanyEntry{
		{Key: "zero", Stats: dataset.FrequencyStats{}},
		{Key: "tie-a", Stats: dataset.FrequencyStats{AllTime: "2"}},
		{Key: "junk", Stats: dataset.FrequencyStats{AllTime: "n/a"}},
		{Key: "top", Stats: dataset.FrequencyStats{AllTime: "10.5"}},
		{Key: "tie-b", Stats: dataset.FrequencyStats{AllTime: "2.0"}},
		{Key: "negative", Stats: dataset.FrequencyStats{AllTime: "-1"}},
	}

	got := SortCompanies(entries)
	want := []string{"top", "tie-a", "tie-b", "zero", "junk", "negative"}
	if diff := cmp.Diff(want, keys(got)); diff != "" {
		t.Errorf("sorted order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "zero", entries[0].Key, "input is not reordered")
}

func TestSortCompaniesNonFiniteCountAsZero(t *testing.T) {
	entries := []dataset.CompanyEntry{
		{Key: "a", Stats: dataset.FrequencyStats{AllTime: "1"}},
		{Key: "b", Stats: dataset.FrequencyStats{AllTime: "NaN"}},
		{Key: "c", Stats: dataset.FrequencyStats{AllTime: "3"}},
		{Key: "d", Stats: dataset.FrequencyStats{AllTime: "Inf"}},
		{Key: "e", Stats: dataset.FrequencyStats{AllTime: "0"}},
	}

	got := SortCompanies(entries)
	want := []string{"c", "a", "b", "d", "e"}
	if diff := cmp.Diff(want, keys(got)); diff != "" {
		t.Errorf("sorted order mismatch (-want +got):\n%s", diff)
	}
}
