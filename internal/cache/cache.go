// Package cache provides Redis-based caching for dashboard responses
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/savegress/plantpulse/internal/config"
)

// Default TTLs per dashboard type
const (
	TTLOEE       = 1 * time.Minute
	TTLScrap     = 1 * time.Minute
	TTLFinancial = 5 * time.Minute
	TTLCustomers = 5 * time.Minute
	TTLProjects  = 30 * time.Second
	TTLInsights  = 2 * time.Minute
)

const keyPrefix = "plantpulse"

// Cache wraps a Redis client with JSON serialization. A disabled cache
// is valid and turns every operation into a miss or a no-op.
type Cache struct {
	client  *redis.Client
	enabled bool
}

// New creates a Cache from config. When disabled, no connection is made.
func New(cfg *config.RedisConfig) (*Cache, error) {
	if !cfg.Enabled {
		return &Cache{enabled: false}, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Cache{client: client, enabled: true}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// IsEnabled returns whether caching is enabled
func (c *Cache) IsEnabled() bool {
	return c.enabled
}

func (c *Cache) key(parts ...string) string {
	key := keyPrefix
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

// Get retrieves a value from cache into dest. Returns redis.Nil on a
// miss, including when the cache is disabled.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	if !c.enabled {
		return redis.Nil
	}

	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.key(key), data, ttl).Err()
}

// Delete removes values from cache
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.enabled || len(keys) == 0 {
		return nil
	}

	fullKeys := make([]string, len(keys))
	for i, k := range keys {
		fullKeys[i] = c.key(k)
	}

	return c.client.Del(ctx, fullKeys...).Err()
}

// InvalidateDashboards drops all cached dashboard views, called after
// record ingestion
func (c *Cache) InvalidateDashboards(ctx context.Context) error {
	if !c.enabled {
		return nil
	}

	iter := c.client.Scan(ctx, 0, c.key("dash", "*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return c.client.Del(ctx, keys...).Err()
	}
	return nil
}

// DashboardKey builds a cache key for a dashboard view and its query
// parameters
func DashboardKey(view string, params ...string) string {
	key := "dash:" + view
	for _, p := range params {
		if p == "" {
			p = "-"
		}
		key += ":" + p
	}
	return key
}

// IsMiss reports whether err is a cache miss
func IsMiss(err error) bool {
	return err == redis.Nil
}
