package repository

import (
	"context"
	"time"

	"github.com/user/petplaces-service/internal/entity"
)

// CachedAggregation is the payload stored per logical query shape.
type CachedAggregation struct {
	Records    []entity.PlaceRecord `json:"records"`
	Additional []entity.PlaceRecord `json:"additional"`
	CreatedAt  time.Time            `json:"createdAt"`
}

// CacheRepository is a time-boxed store keyed by the logical query shape
// (region + mode, never pagination). Implementations must be safe under
// concurrent reads and writes.
type CacheRepository interface {
	// Get returns the cached payload, or ok=false on miss or expiry. An
	// expired entry is treated as a miss and removed.
	Get(ctx context.Context, key string) (*CachedAggregation, bool, error)
	// Put stores the payload. Oversized payloads are skipped, not errors:
	// a suspiciously large result likely indicates a dedup bug upstream
	// and must not be pinned in memory for a day. stored reports whether
	// the payload actually landed in the cache.
	Put(ctx context.Context, key string, payload *CachedAggregation) (stored bool, err error)
}
