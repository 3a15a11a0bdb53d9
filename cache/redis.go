package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/krishisetu/agri-advisor/recommend"
)

// Redis stores recommendation sets as JSON values with a native TTL.
// Redis evicts the key at expiry itself, which satisfies the cache contract:
// an expired entry is simply absent on read.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to Redis using a URL and verifies the connection.
func NewRedis(ctx context.Context, redisURL string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &Redis{client: client}, nil
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

func cacheKey(farmerID string) string {
	return "recommendations:" + farmerID
}

// Get returns the stored entry for the farmer, or nil when absent.
func (r *Redis) Get(ctx context.Context, farmerID string) (*recommend.CacheEntry, error) {
	data, err := r.client.Get(ctx, cacheKey(farmerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry recommend.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &entry, nil
}

// Put upserts the farmer's entry with the given TTL.
func (r *Redis) Put(ctx context.Context, entry recommend.CacheEntry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := r.client.Set(ctx, cacheKey(entry.FarmerID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate removes the farmer's entry. Removing an absent key is not an
// error.
func (r *Redis) Invalidate(ctx context.Context, farmerID string) error {
	if err := r.client.Del(ctx, cacheKey(farmerID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
