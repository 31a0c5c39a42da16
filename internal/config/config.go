package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"companyfinder/internal/cache"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string

	// TLS/mTLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // CA for verifying client certs (mTLS)

	// CORS
	CORSOrigins string // Comma-separated allowed origins, e.g. "https://leetcode.com,https://leetcode.cn"

	// API access. Empty disables the token check.
	APIToken string

	// Rate limit per client IP
	RateLimitPerMinute int

	// Dataset
	CacheExpiry     time.Duration // env: CACHE_EXPIRY_HOURS, default 24
	RefreshInterval time.Duration // 0 disables the background refresher
	FetchTimeout    time.Duration
	SourcesFile     string
	CompanySiteURL  string

	// Storage
	StorageBackend string // memory, file, redis or postgres
	StorageFile    string
	RedisURL       string
	DatabaseURL    string
}

// Load reads configuration from environment variables with sensible defaults.
// Variables from a .env file in the working directory are loaded first and
// never override ones already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		TLSEnabled:  getEnv("TLS_ENABLED", "") != "",
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:   getEnv("TLS_CA_FILE", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "https://leetcode.com,https://leetcode.cn"),
		APIToken:    getEnv("API_TOKEN", ""),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		CacheExpiry:     cache.ExpiryFromHours(getEnvInt("CACHE_EXPIRY_HOURS", 24)),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 15*time.Minute),
		FetchTimeout:    getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
		SourcesFile:     getEnv("SOURCES_FILE", "sources.yaml"),
		CompanySiteURL:  strings.TrimRight(getEnv("COMPANY_SITE_URL", DefaultCompanySiteURL), "/"),

		StorageBackend: getEnv("STORAGE_BACKEND", "file"),
		StorageFile:    getEnv("STORAGE_FILE", defaultStorageFile()),
		RedisURL:       getEnv("REDIS_URL", ""),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
	}
}

// DefaultCompanySiteURL is the site company and search links point at.
const DefaultCompanySiteURL = "https://company-wise-leetcode-farneet.netlify.app"

func defaultStorageFile() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir + string(os.PathSeparator) + "companyfinder" + string(os.PathSeparator) + "cache.json"
	}
	return "companyfinder-cache.json"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsMTLSEnabled returns true if mTLS is configured with a CA file.
func (c *Config) IsMTLSEnabled() bool {
	return c.TLSEnabled && c.TLSCAFile != ""
}
