package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companyfinder/internal/config"
	"companyfinder/internal/metrics"
	"companyfinder/internal/testutil"
)

func writeSources(t *testing.T, ds *testutil.DatasetServer) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	src := ds.Source("local")
	content := "sources:\n  - name: local\n    companies_url: " + src.CompaniesURL + "\n    problems_url: " + src.ProblemsURL + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewFileBackendSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	ds := testutil.NewDatasetServer(t)
	cfg := &config.Config{
		SourcesFile:    writeSources(t, ds),
		StorageBackend: "file",
		StorageFile:    filepath.Join(t.TempDir(), "cache.json"),
	}

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &metrics.MemoryLookups{}, a.Lookups)
	assert.Nil(t, a.Finder.Snapshot())

	snap, err := a.Finder.Refresh(ctx)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := New(ctx, cfg)
	require.NoError(t, err)
	defer b.Close()
	loaded := b.Finder.Snapshot()
	require.NotNil(t, loaded, "snapshot is reloaded from the file cache")
	assert.True(t, loaded.FetchedAt.Equal(snap.FetchedAt))
	assert.Equal(t, 2, ds.Requests(), "restart does not refetch")
}

func TestNewCorruptCacheIsNotFatal(t *testing.T) {
	ds := testutil.NewDatasetServer(t)
	cachePath := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(cachePath, []byte(`{"companiesData":{},"problemData":{},"lastCacheTime":"soon"}`), 0o644))

	a, err := New(context.Background(), &config.Config{
		SourcesFile:    writeSources(t, ds),
		StorageBackend: "file",
		StorageFile:    cachePath,
	})
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.Finder.Snapshot())
}

func TestNewRejectsBadConfig(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, &config.Config{SourcesFile: "missing.yaml", StorageBackend: "etcd"})
	assert.Error(t, err)

	_, err = New(ctx, &config.Config{SourcesFile: "missing.yaml", StorageBackend: "postgres"})
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestNewPostgresBackend(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}
	ds := testutil.NewDatasetServer(t)

	a, err := New(context.Background(), &config.Config{
		SourcesFile:    writeSources(t, ds),
		StorageBackend: "postgres",
		DatabaseURL:    url,
	})
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Finder.Refresh(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, a.Finder.Snapshot())
}
