package storage

import (
	"context"
	"fmt"

	"github.com/gofiber/storage/redis/v3"
)

const redisKeyPrefix = "companyfinder:"

// Redis stores keys in Redis under a fixed prefix. Set writes every key
// with a single MSET and Get reads them with a single MGET, so a reader
// never mixes values from two updates.
type Redis struct {
	db *redis.Storage
}

// NewRedis connects to the Redis server at url.
func NewRedis(url string) (store *Redis, err error) {
	if url == "" {
		return nil, fmt.Errorf("redis storage requires REDIS_URL")
	}
	// redis.New panics when the initial ping fails.
	defer func() {
		if r := recover(); r != nil {
			store = nil
			err = fmt.Errorf("failed to connect to redis: %v", r)
		}
	}()
	db := redis.New(redis.Config{URL: url})
	return &Redis{db: db}, nil
}

func (r *Redis) Get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = redisKeyPrefix + k
	}
	values, err := r.db.Conn().MGet(ctx, prefixed...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get keys: %w", err)
	}
	return collectMGet(keys, values), nil
}

// collectMGet pairs MGET replies with their keys. Missing keys reply nil.
func collectMGet(keys []string, values []any) map[string][]byte {
	out := make(map[string][]byte, len(keys))
	for i, v := range values {
		if i >= len(keys) {
			break
		}
		switch v := v.(type) {
		case string:
			out[keys[i]] = []byte(v)
		case []byte:
			out[keys[i]] = v
		}
	}
	return out
}

func (r *Redis) Set(ctx context.Context, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}
	pairs := make([]any, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, redisKeyPrefix+k, v)
	}
	if err := r.db.Conn().MSet(ctx, pairs...).Err(); err != nil {
		return fmt.Errorf("failed to set keys: %w", err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if err := r.db.DeleteWithContext(ctx, redisKeyPrefix+k); err != nil {
			return fmt.Errorf("failed to remove %s: %w", k, err)
		}
	}
	return nil
}

func (r *Redis) Close() error {
	return r.db.Close()
}
