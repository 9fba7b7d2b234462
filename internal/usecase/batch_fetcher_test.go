package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/petplaces-service/internal/entity"
	"github.com/user/petplaces-service/internal/repository"
)

// fakeTourAPI is a scriptable TourAPIRepository for fetcher and aggregator
// tests.
type fakeTourAPI struct {
	mu sync.Mutex

	areaRecords []entity.PlaceRecord
	areaErr     error
	areaCalls   int

	failKeywords  map[string]bool // always fail
	flakyBudget   map[string]int  // fail this many attempts, then succeed
	itemsPerQuery int             // records returned per keyword, default 1
	keywordCalls  map[string]int
}

func newFakeTourAPI() *fakeTourAPI {
	return &fakeTourAPI{
		failKeywords: map[string]bool{},
		flakyBudget:  map[string]int{},
		keywordCalls: map[string]int{},
	}
}

func (f *fakeTourAPI) AreaList(ctx context.Context, q repository.TourAPIQuery) ([]entity.PlaceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.areaCalls++
	if f.areaErr != nil {
		return nil, f.areaErr
	}
	return f.areaRecords, nil
}

func (f *fakeTourAPI) KeywordSearch(ctx context.Context, q repository.TourAPIQuery) ([]entity.PlaceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keywordCalls[q.Keyword]++

	if f.failKeywords[q.Keyword] {
		return nil, fmt.Errorf("%w: connect refused", repository.ErrTransport)
	}
	if budget := f.flakyBudget[q.Keyword]; budget > 0 {
		f.flakyBudget[q.Keyword] = budget - 1
		return nil, fmt.Errorf("%w: timeout", repository.ErrTransport)
	}

	n := f.itemsPerQuery
	if n == 0 {
		n = 1
	}
	records := make([]entity.PlaceRecord, n)
	for i := range records {
		records[i] = entity.PlaceRecord{
			ContentID: fmt.Sprintf("%s-%d", q.Keyword, i),
			Title:     q.Keyword,
			Source:    entity.SourceKeyword,
		}
	}
	return records, nil
}

func fastFetcherConfig() KeywordFetcherConfig {
	return KeywordFetcherConfig{
		BatchWidth:         10,
		Retries:            3,
		RetryDelay:         time.Millisecond,
		ChunkPause:         time.Millisecond,
		MaxItemsPerKeyword: 3,
	}
}

func TestFetchAllPartialFailureTolerance(t *testing.T) {
	api := newFakeTourAPI()
	var keywords []string
	for i := 0; i < 100; i++ {
		kw := fmt.Sprintf("keyword-%03d", i)
		keywords = append(keywords, kw)
		if i%10 == 0 { // fail 10 of 100
			api.failKeywords[kw] = true
		}
	}

	f := NewKeywordFetcher(api, fastFetcherConfig())
	records, stats := f.FetchAll(context.Background(), "6", keywords)

	assert.Equal(t, 100, stats.Attempted)
	assert.Equal(t, 90, stats.Succeeded)
	assert.Equal(t, 10, stats.Failed)
	assert.Len(t, stats.FailedKeywords, 10)
	assert.Len(t, records, 90)
}

func TestFetchAllRetriesFlakyKeyword(t *testing.T) {
	api := newFakeTourAPI()
	api.flakyBudget["오르디"] = 2 // two failures, third attempt succeeds

	f := NewKeywordFetcher(api, fastFetcherConfig())
	records, stats := f.FetchAll(context.Background(), "6", []string{"오르디"})

	assert.Equal(t, 1, stats.Succeeded)
	assert.Equal(t, 0, stats.Failed)
	require.Len(t, records, 1)
	assert.Equal(t, 3, api.keywordCalls["오르디"])
}

func TestFetchAllExhaustsRetryBudget(t *testing.T) {
	api := newFakeTourAPI()
	api.failKeywords["오르디"] = true

	f := NewKeywordFetcher(api, fastFetcherConfig())
	records, stats := f.FetchAll(context.Background(), "6", []string{"오르디"})

	assert.Empty(t, records)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, []string{"오르디"}, stats.FailedKeywords)
	assert.Equal(t, 3, api.keywordCalls["오르디"])
}

func TestFetchAllCapsItemsPerKeyword(t *testing.T) {
	api := newFakeTourAPI()
	api.itemsPerQuery = 5

	f := NewKeywordFetcher(api, fastFetcherConfig())
	records, _ := f.FetchAll(context.Background(), "6", []string{"오르디"})

	require.Len(t, records, 3)
	for _, rec := range records {
		assert.Equal(t, "오르디", rec.SourceKeyword)
	}
}

func TestFetchAllPreservesKeywordOrder(t *testing.T) {
	api := newFakeTourAPI()
	keywords := []string{"가", "나", "다", "라", "마"}

	f := NewKeywordFetcher(api, fastFetcherConfig())
	records, _ := f.FetchAll(context.Background(), "6", keywords)

	require.Len(t, records, 5)
	for i, kw := range keywords {
		assert.Equal(t, kw, records[i].Title)
	}
}

func TestFetchAllCancelledContext(t *testing.T) {
	api := newFakeTourAPI()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewKeywordFetcher(api, fastFetcherConfig())
	records, stats := f.FetchAll(ctx, "6", []string{"가", "나"})

	assert.Empty(t, records)
	assert.Equal(t, 2, stats.Failed)
}
