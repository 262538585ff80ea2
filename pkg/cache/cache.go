package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs
const (
	TTLGames       = 5 * time.Minute  // catalog listings (change rarely)
	TTLLeaderboard = 3 * time.Minute  // leaderboard projection
	TTLShort       = 1 * time.Minute  // pending queues (near-realtime)
	TTLDefault     = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixGame        = "game:"
	PrefixGames       = "games:"
	PrefixLeaderboard = "leaderboard:"
	PrefixCorrections = "corrections:list:"
	PrefixSubmissions = "submissions:list:"
)

// Service Redis cache service interface
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error

	InvalidateGame(ctx context.Context, slug string) error
	InvalidateLeaderboard(ctx context.Context) error
	InvalidateCorrectionLists(ctx context.Context) error
	InvalidateSubmissionLists(ctx context.Context) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

// redisCache Redis-backed cache implementation
type redisCache struct {
	client *redis.Client
}

// NewService creates a new cache service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable reports whether a Redis connection exists
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Ping tests the Redis connection
func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

// Get reads a cached value into dest
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// Set stores a value in the cache
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // no Redis, skip silently
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes cache entries
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// DeleteByPattern removes all keys matching a pattern
func (c *redisCache) DeleteByPattern(ctx context.Context, pattern string) error {
	if c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// InvalidateGame drops a single game plus all listing caches
func (c *redisCache) InvalidateGame(ctx context.Context, slug string) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, PrefixGame+slug).Err(); err != nil {
		return err
	}
	return c.DeleteByPattern(ctx, PrefixGames+"*")
}

// InvalidateLeaderboard drops leaderboard projections
func (c *redisCache) InvalidateLeaderboard(ctx context.Context) error {
	return c.DeleteByPattern(ctx, PrefixLeaderboard+"*")
}

// InvalidateCorrectionLists drops correction listing caches
func (c *redisCache) InvalidateCorrectionLists(ctx context.Context) error {
	return c.DeleteByPattern(ctx, PrefixCorrections+"*")
}

// InvalidateSubmissionLists drops game-submission listing caches
func (c *redisCache) InvalidateSubmissionLists(ctx context.Context) error {
	return c.DeleteByPattern(ctx, PrefixSubmissions+"*")
}
