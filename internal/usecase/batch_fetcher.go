package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/user/petplaces-service/internal/entity"
	"github.com/user/petplaces-service/internal/repository"
	"github.com/user/petplaces-service/pkg/metrics"
)

// BatchStats counts per-keyword outcomes of one batch run.
type BatchStats struct {
	Attempted      int
	Succeeded      int
	Failed         int
	FailedKeywords []string
}

// KeywordFetcherConfig bounds the batch fetcher's upstream load.
type KeywordFetcherConfig struct {
	// BatchWidth is the chunk size; keywords within a chunk run
	// concurrently, chunks run sequentially.
	BatchWidth int
	// Retries is the per-keyword attempt budget.
	Retries int
	// RetryDelay is the pause between attempts for one keyword.
	RetryDelay time.Duration
	// ChunkPause is the cooperative delay between chunks; the upstream
	// gives no backpressure signal.
	ChunkPause time.Duration
	// MaxItemsPerKeyword caps accepted items per keyword query so one bad
	// keyword cannot flood the result set.
	MaxItemsPerKeyword int
}

func (c *KeywordFetcherConfig) withDefaults() {
	if c.BatchWidth <= 0 {
		c.BatchWidth = 10
	}
	if c.Retries <= 0 {
		c.Retries = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 300 * time.Millisecond
	}
	if c.ChunkPause <= 0 {
		c.ChunkPause = 500 * time.Millisecond
	}
	if c.MaxItemsPerKeyword <= 0 {
		c.MaxItemsPerKeyword = 3
	}
}

// KeywordFetcher drives the curated keyword list through the upstream
// client in bounded concurrent chunks, collecting every partial result.
type KeywordFetcher struct {
	api   repository.TourAPIRepository
	cfg   KeywordFetcherConfig
	pacer *rate.Limiter
}

// NewKeywordFetcher creates a batch fetcher over the given upstream client.
func NewKeywordFetcher(api repository.TourAPIRepository, cfg KeywordFetcherConfig) *KeywordFetcher {
	cfg.withDefaults()
	return &KeywordFetcher{
		api:   api,
		cfg:   cfg,
		pacer: rate.NewLimiter(rate.Every(cfg.ChunkPause), 1),
	}
}

// FetchAll probes every keyword and returns the union of all records found,
// in keyword order, tolerating any subset of per-keyword failures. A failed
// keyword's only symptom is its absence from the result set.
func (f *KeywordFetcher) FetchAll(ctx context.Context, region string, keywords []string) ([]entity.PlaceRecord, BatchStats) {
	stats := BatchStats{Attempted: len(keywords)}

	// Results are collected per keyword index so output ordering is
	// deterministic regardless of completion order within a chunk.
	results := make([][]entity.PlaceRecord, len(keywords))
	failed := make([]bool, len(keywords))

	for start := 0; start < len(keywords); start += f.cfg.BatchWidth {
		end := start + f.cfg.BatchWidth
		if end > len(keywords) {
			end = len(keywords)
		}

		if err := f.pacer.Wait(ctx); err != nil {
			// Context gone; remaining keywords count as failed.
			for i := start; i < len(keywords); i++ {
				failed[i] = true
			}
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(f.cfg.BatchWidth)
		for i := start; i < end; i++ {
			idx := i
			g.Go(func() error {
				records, err := f.fetchKeyword(gctx, region, keywords[idx])
				if err != nil {
					failed[idx] = true
					return nil
				}
				results[idx] = records
				return nil
			})
		}
		// Goroutines never return errors; failures are per-keyword.
		_ = g.Wait()

		slog.Debug("Keyword chunk resolved", "from", start, "to", end)
	}

	var union []entity.PlaceRecord
	for i := range results {
		if failed[i] {
			stats.Failed++
			stats.FailedKeywords = append(stats.FailedKeywords, keywords[i])
			metrics.KeywordFetchesTotal.WithLabelValues("failure").Inc()
			continue
		}
		stats.Succeeded++
		metrics.KeywordFetchesTotal.WithLabelValues("success").Inc()
		union = append(union, results[i]...)
	}

	slog.Info("Keyword batch completed",
		"attempted", stats.Attempted,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"records", len(union),
	)

	return union, stats
}

// fetchKeyword runs the per-keyword retry loop: up to Retries attempts with
// a short delay in between. Exhausting the budget fails the keyword only,
// never the batch.
func (f *KeywordFetcher) fetchKeyword(ctx context.Context, region, keyword string) ([]entity.PlaceRecord, error) {
	q := repository.TourAPIQuery{
		Family:  repository.FamilyGeneral,
		Region:  region,
		Keyword: keyword,
		PageNo:  "1",
		Rows:    strconv.Itoa(f.cfg.MaxItemsPerKeyword),
	}

	var lastErr error
	for attempt := 1; attempt <= f.cfg.Retries; attempt++ {
		records, err := f.api.KeywordSearch(ctx, q)
		if err == nil {
			if len(records) > f.cfg.MaxItemsPerKeyword {
				records = records[:f.cfg.MaxItemsPerKeyword]
			}
			for i := range records {
				records[i].SourceKeyword = keyword
			}
			return records, nil
		}

		lastErr = err
		slog.Warn("Keyword fetch attempt failed",
			"keyword", keyword, "attempt", attempt, "error", err)

		if attempt < f.cfg.Retries {
			select {
			case <-time.After(f.cfg.RetryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, lastErr
}
