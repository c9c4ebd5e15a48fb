// Package cache provides the Redis-backed search cache. The cache is
// strictly optional; every caller treats a miss and a cache error the
// same way, so a dead Redis only costs latency, never correctness.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"retailpos/internal/config"
	"retailpos/internal/domain/catalogs/variant"
	"retailpos/pkg/logger"
)

const searchKeyPrefix = "retailpos:search:"

// SearchCache caches variant search results under a short TTL and
// implements variant.SearchCache.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSearchCache connects to Redis and pings it once so a bad address
// fails at startup rather than on the first sale.
func NewSearchCache(ctx context.Context, cfg *config.Config) (*SearchCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &SearchCache{client: client, ttl: cfg.SearchTTL}, nil
}

// Get returns cached results for the query, if present.
func (c *SearchCache) Get(ctx context.Context, query string) ([]variant.SearchResult, bool) {
	raw, err := c.client.Get(ctx, searchKeyPrefix+query).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn(ctx, "search cache read failed", "error", err)
		}
		return nil, false
	}

	var results []variant.SearchResult
	if err := json.Unmarshal(raw, &results); err != nil {
		logger.Warn(ctx, "search cache entry corrupt, dropping", "query", query)
		c.client.Del(ctx, searchKeyPrefix+query)
		return nil, false
	}
	return results, true
}

// Set stores results under the configured TTL.
func (c *SearchCache) Set(ctx context.Context, query string, results []variant.SearchResult) {
	raw, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, searchKeyPrefix+query, raw, c.ttl).Err(); err != nil {
		logger.Warn(ctx, "search cache write failed", "error", err)
	}
}

// Invalidate drops every cached search. Catalog writes call this, so
// the scan runs rarely and over a small keyspace.
func (c *SearchCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, searchKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Warn(ctx, "search cache scan failed", "error", err)
		return
	}
	if len(keys) > 0 {
		c.client.Del(ctx, keys...)
	}
}

// Close releases the underlying Redis connection.
func (c *SearchCache) Close() error {
	return c.client.Close()
}
