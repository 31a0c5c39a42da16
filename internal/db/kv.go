package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// KVStore implements storage.Store on the kv_entries table.
type KVStore struct {
	db *DB
}

// NewKVStore returns a key/value store backed by the database.
func NewKVStore(database *DB) *KVStore {
	return &KVStore{db: database}
}

// Get returns the values for the keys that exist.
func (s *KVStore) Get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	rows, err := s.db.Pool.Query(ctx, `SELECT key, value FROM kv_entries WHERE key = ANY($1)`, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to query keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		out[key] = value
	}
	return out, rows.Err()
}

// Set upserts every value in one transaction.
func (s *KVStore) Set(ctx context.Context, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}

	return pgx.BeginFunc(ctx, s.db.Pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for k, v := range values {
			batch.Queue(`
				INSERT INTO kv_entries (key, value, updated_at)
				VALUES ($1, $2, NOW())
				ON CONFLICT (key) DO UPDATE
				SET value = EXCLUDED.value, updated_at = NOW()
			`, k, v)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to set keys: %w", err)
		}
		return nil
	})
}

// Remove deletes the given keys. Missing keys are ignored.
func (s *KVStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM kv_entries WHERE key = ANY($1)`, keys); err != nil {
		return fmt.Errorf("failed to remove keys: %w", err)
	}
	return nil
}

// Close is a no-op; the pool is owned by DB.
func (s *KVStore) Close() error {
	return nil
}
