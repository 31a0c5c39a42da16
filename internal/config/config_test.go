package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"companyfinder/internal/fetcher"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "CACHE_EXPIRY_HOURS", "REFRESH_INTERVAL", "STORAGE_BACKEND", "COMPANY_SITE_URL", "RATE_LIMIT_PER_MINUTE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if !cfg.IsDev() {
		t.Errorf("expected development by default, got %q", cfg.Env)
	}
	if cfg.CacheExpiry != 24*time.Hour {
		t.Errorf("CacheExpiry = %v, want 24h", cfg.CacheExpiry)
	}
	if cfg.RefreshInterval != 15*time.Minute {
		t.Errorf("RefreshInterval = %v, want 15m", cfg.RefreshInterval)
	}
	if cfg.StorageBackend != "file" {
		t.Errorf("StorageBackend = %q, want file", cfg.StorageBackend)
	}
	if cfg.CompanySiteURL != DefaultCompanySiteURL {
		t.Errorf("CompanySiteURL = %q", cfg.CompanySiteURL)
	}
	if cfg.RateLimitPerMinute != 120 {
		t.Errorf("RateLimitPerMinute = %d, want 120", cfg.RateLimitPerMinute)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("CACHE_EXPIRY_HOURS", "6")
	t.Setenv("REFRESH_INTERVAL", "1h")
	t.Setenv("FETCH_TIMEOUT", "bogus")
	t.Setenv("COMPANY_SITE_URL", "https://example.com/")
	t.Setenv("TLS_ENABLED", "1")
	t.Setenv("TLS_CA_FILE", "/etc/ca.pem")

	cfg := Load()
	if cfg.IsDev() {
		t.Error("production should not be dev")
	}
	if cfg.CacheExpiry != 6*time.Hour {
		t.Errorf("CacheExpiry = %v, want 6h", cfg.CacheExpiry)
	}
	if cfg.RefreshInterval != time.Hour {
		t.Errorf("RefreshInterval = %v, want 1h", cfg.RefreshInterval)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("unparseable FETCH_TIMEOUT should fall back, got %v", cfg.FetchTimeout)
	}
	if cfg.CompanySiteURL != "https://example.com" {
		t.Errorf("trailing slash not trimmed: %q", cfg.CompanySiteURL)
	}
	if !cfg.IsMTLSEnabled() {
		t.Error("expected mTLS enabled")
	}
}

func TestNonPositiveExpiryFallsBack(t *testing.T) {
	t.Setenv("CACHE_EXPIRY_HOURS", "0")
	if got := Load().CacheExpiry; got != 24*time.Hour {
		t.Errorf("CacheExpiry = %v, want 24h", got)
	}
}

func TestLoadSourcesMissingFile(t *testing.T) {
	sources, err := LoadSources(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != len(fetcher.DefaultSources) || sources[0].Name != "github" {
		t.Errorf("expected default sources, got %+v", sources)
	}
}

func TestLoadSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	content := `sources:
  - name: mirror
    companies_url: https://mirror.example.com/companies.json
    problems_url: https://mirror.example.com/problems.json
  - companies_url: https://backup.example.com/companies.json
    problems_url: https://backup.example.com/problems.json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	sources, err := LoadSources(path)
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Name != "mirror" || sources[1].Name != "source-2" {
		t.Errorf("unexpected names: %q, %q", sources[0].Name, sources[1].Name)
	}
	if sources[1].ProblemsURL != "https://backup.example.com/problems.json" {
		t.Errorf("ProblemsURL = %q", sources[1].ProblemsURL)
	}
}

func TestLoadSourcesRejectsBadURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	content := `sources:
  - name: bad
    companies_url: ftp://example.com/companies.json
    problems_url: https://example.com/problems.json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSources(path); err == nil {
		t.Error("expected error for non-http source")
	}
}

func TestLoadSourcesMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte("sources: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSources(path); err == nil {
		t.Error("expected parse error")
	}
}
