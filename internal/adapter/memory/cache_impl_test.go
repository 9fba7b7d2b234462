package memory

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/petplaces-service/internal/entity"
	"github.com/user/petplaces-service/internal/repository"
	"github.com/user/petplaces-service/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init()
	os.Exit(m.Run())
}

func payloadWith(n int) *repository.CachedAggregation {
	records := make([]entity.PlaceRecord, n)
	for i := range records {
		records[i] = entity.PlaceRecord{ContentID: "id", Title: "title"}
	}
	return &repository.CachedAggregation{Records: records, CreatedAt: time.Now()}
}

func TestCacheTTLBoundary(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	c := NewCache(24*time.Hour, 150)
	now := base
	c.now = func() time.Time { return now }

	stored, err := c.Put(ctx, "key", payloadWith(3))
	require.NoError(t, err)
	require.True(t, stored)

	// Just inside the TTL: still a hit, returned unchanged.
	now = base.Add(23*time.Hour + 59*time.Minute)
	got, ok, err := c.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got.Records, 3)

	// Just past the TTL: a miss, and the entry is removed.
	now = base.Add(24*time.Hour + time.Minute)
	_, ok, err = c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, ok)

	c.mu.RLock()
	_, still := c.entries["key"]
	c.mu.RUnlock()
	assert.False(t, still, "expired entry must be evicted on read")
}

func TestCacheMissOnUnknownKey(t *testing.T) {
	c := NewCache(24*time.Hour, 150)

	_, ok, err := c.Get(context.Background(), "nope")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheSkipsOversizedPayload(t *testing.T) {
	ctx := context.Background()
	c := NewCache(24*time.Hour, 150)

	stored, err := c.Put(ctx, "key", payloadWith(151))
	require.NoError(t, err)
	assert.False(t, stored, "skipped write must be reported")

	_, ok, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, ok, "oversized payload must not be stored")
}

func TestCacheOverwriteRefreshesEntry(t *testing.T) {
	ctx := context.Background()
	c := NewCache(24*time.Hour, 150)

	_, err := c.Put(ctx, "key", payloadWith(1))
	require.NoError(t, err)
	_, err = c.Put(ctx, "key", payloadWith(2))
	require.NoError(t, err)

	got, ok, err := c.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got.Records, 2)
}
