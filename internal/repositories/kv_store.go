// internal/repositories/kv_store.go
package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// KVStore is the key-value contract the token denylist is built on:
// per-key expiry plus a cursor-based prefix scan. Backed by Redis in
// production.
type KVStore interface {
	// SetWithTTL stores value at key and lets the store expire it after ttl.
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns the value at key. The second return is false when the
	// key is absent (or already expired).
	Get(ctx context.Context, key string) (string, bool, error)

	// Scan returns a page of keys matching the glob pattern, plus the
	// cursor for the next page. A returned cursor of 0 signals completion.
	Scan(ctx context.Context, cursor uint64, match string, count int64) ([]string, uint64, error)
}

// ----------------------------
// Redis implementation
// ----------------------------

type redisKVStore struct {
	client *redis.Client
}

func NewRedisKVStore(client *redis.Client) KVStore {
	return &redisKVStore{client: client}
}

func (s *redisKVStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *redisKVStore) Scan(ctx context.Context, cursor uint64, match string, count int64) ([]string, uint64, error) {
	return s.client.Scan(ctx, cursor, match, count).Result()
}
