package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/petplaces-service/internal/repository"
	"github.com/user/petplaces-service/pkg/metrics"
	"github.com/user/petplaces-service/pkg/utils"
)

const cacheKeyPrefix = "petplaces:aggregate:"

// CacheImpl provides a networked CacheRepository on Redis, for deployments
// where multiple instances should share one composed result.
type CacheImpl struct {
	client     *redis.Client
	ttl        time.Duration
	maxRecords int
}

// NewCache creates a Redis-backed CacheRepository.
func NewCache(client *redis.Client, ttl time.Duration, maxRecords int) *CacheImpl {
	return &CacheImpl{client: client, ttl: ttl, maxRecords: maxRecords}
}

// generateKey creates a consistent Redis key for a logical query shape.
func (c *CacheImpl) generateKey(key string) string {
	return fmt.Sprintf("%s%s", cacheKeyPrefix, utils.HashKey(key))
}

// Get returns the cached payload for key. Expiry is delegated to Redis TTL;
// a vanished key is a miss.
func (c *CacheImpl) Get(ctx context.Context, key string) (*repository.CachedAggregation, bool, error) {
	raw, err := c.client.Get(ctx, c.generateKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheOpsTotal.WithLabelValues("get", "miss").Inc()
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var payload repository.CachedAggregation
	if err := json.Unmarshal(raw, &payload); err != nil {
		// A corrupt entry behaves like a miss; the pipeline recomputes.
		slog.Warn("Dropping corrupt cache entry", "key", key, "error", err)
		c.client.Del(ctx, c.generateKey(key))
		metrics.CacheOpsTotal.WithLabelValues("get", "corrupt").Inc()
		return nil, false, nil
	}

	metrics.CacheOpsTotal.WithLabelValues("get", "hit").Inc()
	return &payload, true, nil
}

// Put stores the payload with the configured TTL. Oversized payloads are
// skipped, mirroring the in-memory adapter.
func (c *CacheImpl) Put(ctx context.Context, key string, payload *repository.CachedAggregation) (bool, error) {
	if len(payload.Records) > c.maxRecords {
		slog.Warn("Skipping cache write for oversized payload",
			"key", key, "records", len(payload.Records), "max", c.maxRecords)
		metrics.CacheOpsTotal.WithLabelValues("put", "skipped").Inc()
		return false, nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("failed to encode cache payload: %w", err)
	}

	if err := c.client.SetEx(ctx, c.generateKey(key), raw, c.ttl).Err(); err != nil {
		return false, fmt.Errorf("failed to write cache entry: %w", err)
	}

	metrics.CacheOpsTotal.WithLabelValues("put", "stored").Inc()
	return true, nil
}
