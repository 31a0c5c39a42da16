package storage

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the key/value contract against any backend.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	got, err := s.Get(ctx, "companiesData", "lastCacheTime")
	require.NoError(t, err)
	assert.Empty(t, got, "missing keys are absent, not errors")

	require.NoError(t, s.Set(ctx, map[string][]byte{
		"companiesData": []byte(`{"1":{"title":"Two Sum"}}`),
		"lastCacheTime": []byte(`1760000000000`),
	}))

	got, err = s.Get(ctx, "companiesData", "lastCacheTime", "problemData")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.JSONEq(t, `{"1":{"title":"Two Sum"}}`, string(got["companiesData"]))
	assert.Equal(t, "1760000000000", string(got["lastCacheTime"]))
	_, ok := got["problemData"]
	assert.False(t, ok)

	require.NoError(t, s.Remove(ctx, "companiesData", "notThere"))
	got, err = s.Get(ctx, "companiesData", "lastCacheTime")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, "lastCacheTime")

	require.NoError(t, s.Remove(ctx, "lastCacheTime"))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	v := []byte(`"a"`)
	require.NoError(t, s.Set(ctx, map[string][]byte{"k": v}))
	v[1] = 'b'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"a"`, string(got["k"]))
}

func TestFileStore(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "nested", "cache.json"))
	defer s.Close()
	exerciseStore(t, s)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.json")

	require.NoError(t, NewFile(path).Set(ctx, map[string][]byte{"lastCacheTime": []byte(`42`)}))

	got, err := NewFile(path).Get(ctx, "lastCacheTime")
	require.NoError(t, err)
	assert.Equal(t, "42", string(got["lastCacheTime"]))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file should be renamed away")
}

func TestFileStoreRejectsNonJSON(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "cache.json"))
	err := s.Set(context.Background(), map[string][]byte{"k": []byte("not json")})
	assert.Error(t, err)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o644))

	_, err := NewFile(path).Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: TEST_REDIS_URL not set")
	}
	s, err := NewRedis(url)
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestCollectMGet(t *testing.T) {
	keys := []string{"companiesData", "problemData", "lastCacheTime"}
	got := collectMGet(keys, []any{`{"1":{}}`, nil, []byte("42")})

	assert.Equal(t, map[string][]byte{
		"companiesData": []byte(`{"1":{}}`),
		"lastCacheTime": []byte("42"),
	}, got)
	assert.Empty(t, collectMGet(keys, []any{nil, nil, nil}))
}

func TestRedisStoreReadsOneUpdate(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: TEST_REDIS_URL not set")
	}
	s, err := NewRedis(url)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	keys := []string{"companiesData", "problemData", "lastCacheTime"}
	defer s.Remove(ctx, keys...)

	write := func(n int) map[string][]byte {
		v := []byte(strconv.Itoa(n))
		return map[string][]byte{"companiesData": v, "problemData": v, "lastCacheTime": v}
	}
	require.NoError(t, s.Set(ctx, write(0)))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= 200; i++ {
			if err := s.Set(ctx, write(i)); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		got, err := s.Get(ctx, keys...)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, string(got["companiesData"]), string(got["problemData"]))
		assert.Equal(t, string(got["companiesData"]), string(got["lastCacheTime"]))
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(Options{Backend: BackendFile, FilePath: filepath.Join(t.TempDir(), "c.json")})
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	_, err = Open(Options{Backend: BackendRedis})
	assert.Error(t, err)

	_, err = Open(Options{Backend: "etcd"})
	assert.Error(t, err)
}
