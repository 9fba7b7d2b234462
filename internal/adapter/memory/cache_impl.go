package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/user/petplaces-service/internal/repository"
	"github.com/user/petplaces-service/pkg/metrics"
)

type cacheEntry struct {
	payload   *repository.CachedAggregation
	createdAt time.Time
}

// CacheImpl is a process-wide TTL cache. It is not persisted across
// restarts; recomputation is idempotent and bounded in cost.
type CacheImpl struct {
	mu         sync.RWMutex
	entries    map[string]cacheEntry
	ttl        time.Duration
	maxRecords int
	now        func() time.Time
}

// NewCache creates an in-memory CacheRepository with the given TTL and
// maximum cached record count.
func NewCache(ttl time.Duration, maxRecords int) *CacheImpl {
	return &CacheImpl{
		entries:    make(map[string]cacheEntry),
		ttl:        ttl,
		maxRecords: maxRecords,
		now:        time.Now,
	}
}

// Get returns the cached payload for key. Entries older than the TTL are
// removed and reported as misses.
func (c *CacheImpl) Get(ctx context.Context, key string) (*repository.CachedAggregation, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		metrics.CacheOpsTotal.WithLabelValues("get", "miss").Inc()
		return nil, false, nil
	}

	if c.now().Sub(entry.createdAt) >= c.ttl {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have
		// refreshed the entry.
		if current, still := c.entries[key]; still && c.now().Sub(current.createdAt) >= c.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		metrics.CacheOpsTotal.WithLabelValues("get", "expired").Inc()
		return nil, false, nil
	}

	metrics.CacheOpsTotal.WithLabelValues("get", "hit").Inc()
	return entry.payload, true, nil
}

// Put stores the payload under key. Payloads above the record bound are
// skipped: a result that large points at a dedup bug upstream and must not
// be pinned for a day.
func (c *CacheImpl) Put(ctx context.Context, key string, payload *repository.CachedAggregation) (bool, error) {
	if len(payload.Records) > c.maxRecords {
		slog.Warn("Skipping cache write for oversized payload",
			"key", key, "records", len(payload.Records), "max", c.maxRecords)
		metrics.CacheOpsTotal.WithLabelValues("put", "skipped").Inc()
		return false, nil
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{payload: payload, createdAt: c.now()}
	c.mu.Unlock()

	metrics.CacheOpsTotal.WithLabelValues("put", "stored").Inc()
	return true, nil
}
