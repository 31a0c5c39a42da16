// Package storage provides the key/value stores the dataset cache is
// persisted in.
package storage

import (
	"context"
	"fmt"
)

// Store is an asynchronous key/value store. A key that is not present is
// simply missing from the result of Get; it is not an error.
type Store interface {
	Get(ctx context.Context, keys ...string) (map[string][]byte, error)
	Set(ctx context.Context, values map[string][]byte) error
	Remove(ctx context.Context, keys ...string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Options configures Open.
type Options struct {
	Backend  string
	FilePath string
	RedisURL string
}

// Open creates the store for the configured backend. The postgres backend
// lives in the db package and is not handled here.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile, "":
		return NewFile(opts.FilePath), nil
	case BackendRedis:
		return NewRedis(opts.RedisURL)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", opts.Backend)
	}
}
