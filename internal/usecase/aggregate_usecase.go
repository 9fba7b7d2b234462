package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/user/petplaces-service/internal/curated"
	"github.com/user/petplaces-service/internal/entity"
	"github.com/user/petplaces-service/internal/repository"
	"github.com/user/petplaces-service/pkg/metrics"
	"github.com/user/petplaces-service/pkg/utils"
)

var (
	// ErrInvalidMode rejects requests whose mode is neither general nor pet.
	ErrInvalidMode = errors.New("unsupported aggregation mode")
)

const (
	defaultRows   = "12"
	defaultPageNo = "1"
)

// Aggregator is the external-facing aggregation operation.
type Aggregator interface {
	// Aggregate serves one aggregation request. It always returns a
	// well-formed envelope for valid modes; upstream failures surface as
	// status tags, never as errors.
	Aggregate(ctx context.Context, q entity.AggregationQuery) (*entity.AggregationResult, error)
	// RecentRuns lists recent bulk pipeline runs, newest first. Returns an
	// empty list when run persistence is disabled.
	RecentRuns(ctx context.Context, limit int) ([]*entity.PipelineRun, error)
}

type aggregatorUseCase struct {
	api           repository.TourAPIRepository
	cache         repository.CacheRepository
	runLog        repository.RunLogRepository // nil when persistence is disabled
	fetcher       *KeywordFetcher
	merger        *MergeEngine
	dataset       *curated.Dataset
	group         singleflight.Group
	defaultRegion string
}

// NewAggregator creates the aggregation use case. runLog may be nil.
func NewAggregator(
	api repository.TourAPIRepository,
	cache repository.CacheRepository,
	runLog repository.RunLogRepository,
	fetcher *KeywordFetcher,
	merger *MergeEngine,
	dataset *curated.Dataset,
	defaultRegion string,
) Aggregator {
	return &aggregatorUseCase{
		api:           api,
		cache:         cache,
		runLog:        runLog,
		fetcher:       fetcher,
		merger:        merger,
		dataset:       dataset,
		defaultRegion: defaultRegion,
	}
}

func (uc *aggregatorUseCase) Aggregate(ctx context.Context, q entity.AggregationQuery) (*entity.AggregationResult, error) {
	uc.normalize(&q)

	switch q.Mode {
	case entity.ModeGeneral:
		return uc.aggregateSingle(ctx, q, repository.FamilyGeneral), nil
	case entity.ModePet:
		if q.LoadAllKeywords {
			return uc.aggregateBulk(ctx, q), nil
		}
		return uc.aggregateSingle(ctx, q, repository.FamilyPet), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, q.Mode)
	}
}

func (uc *aggregatorUseCase) normalize(q *entity.AggregationQuery) {
	if q.Region == "" {
		q.Region = uc.defaultRegion
	}
	if q.RowsPerPage == "" {
		q.RowsPerPage = defaultRows
	}
	if q.PageNo == "" {
		q.PageNo = defaultPageNo
	}
	if q.Mode == "" {
		q.Mode = entity.ModeGeneral
	}
}

// aggregateSingle serves the single-call modes: one area-list call, or one
// keyword search when a keyword override is present. No batch, merge or
// cache logic applies here.
func (uc *aggregatorUseCase) aggregateSingle(ctx context.Context, q entity.AggregationQuery, family string) *entity.AggregationResult {
	result := &entity.AggregationResult{
		RequestParams: q,
		Timestamp:     time.Now(),
		Status: entity.AggregationStatus{
			Tourism:    entity.StatusNotRequested,
			PetTourism: entity.StatusNotRequested,
		},
	}

	query := repository.TourAPIQuery{
		Family:  family,
		Region:  q.Region,
		Keyword: q.Keyword,
		PageNo:  q.PageNo,
		Rows:    q.RowsPerPage,
	}

	var records []entity.PlaceRecord
	var err error
	if q.Keyword != "" {
		records, err = uc.api.KeywordSearch(ctx, query)
	} else {
		records, err = uc.api.AreaList(ctx, query)
	}

	status := entity.StatusSuccess
	if err != nil {
		slog.Error("Single-call aggregation failed",
			"family", family, "region", q.Region, "keyword", q.Keyword, "error", err)
		status = entity.StatusFailed
		records = nil
	}

	if family == repository.FamilyPet {
		result.PetTourismData = records
		result.Status.PetTourism = status
	} else {
		result.TourismData = records
		result.Status.Tourism = status
	}
	return result
}

// aggregateBulk serves pet mode with loadAllKeywords: cache first, then the
// full pipeline. Concurrent callers for the same key share one computation.
func (uc *aggregatorUseCase) aggregateBulk(ctx context.Context, q entity.AggregationQuery) *entity.AggregationResult {
	key := utils.CacheKey("pet_all", q.Region)

	v, err, _ := uc.group.Do(key, func() (interface{}, error) {
		if payload, ok, cacheErr := uc.cache.Get(ctx, key); cacheErr == nil && ok {
			return &bulkOutcome{payload: payload, fromCache: true}, nil
		} else if cacheErr != nil {
			slog.Warn("Cache read failed, recomputing", "key", key, "error", cacheErr)
		}
		return uc.runPipeline(ctx, q.Region, key), nil
	})

	result := &entity.AggregationResult{
		RequestParams: q,
		Timestamp:     time.Now(),
		Status: entity.AggregationStatus{
			Tourism:    entity.StatusFailed,
			PetTourism: entity.StatusFailed,
		},
	}
	if err != nil {
		// singleflight only propagates panics from the shared call; treat
		// as a failed run with an empty envelope.
		slog.Error("Bulk aggregation failed", "key", key, "error", err)
		return result
	}

	outcome := v.(*bulkOutcome)
	result.PetTourismData = outcome.payload.Records
	result.AdditionalPetPlaces = outcome.payload.Additional
	if outcome.fromCache {
		result.Status.Tourism = entity.StatusSuccess
		result.Status.PetTourism = entity.StatusSuccess
	} else {
		result.Status.Tourism = outcome.keywordStatus
		result.Status.PetTourism = outcome.areaStatus
	}
	return result
}

// bulkOutcome carries the pipeline result plus per-source outcomes through
// the singleflight boundary.
type bulkOutcome struct {
	payload       *repository.CachedAggregation
	fromCache     bool
	areaStatus    string
	keywordStatus string
}

// runPipeline executes the full bulk pipeline: pet-family area list plus the
// curated keyword batch, merged, enriched, reconciled and cached.
func (uc *aggregatorUseCase) runPipeline(ctx context.Context, region, key string) *bulkOutcome {
	started := time.Now()
	keywords := uc.dataset.Keywords()

	areaStatus := entity.StatusSuccess
	areaRecords, err := uc.api.AreaList(ctx, repository.TourAPIQuery{
		Family: repository.FamilyPet,
		Region: region,
		PageNo: "1",
		Rows:   "100",
	})
	if err != nil {
		slog.Error("Pet area list failed, continuing with keyword batch",
			"region", region, "error", err)
		areaStatus = entity.StatusFailed
		areaRecords = nil
	}

	keywordRecords, stats := uc.fetcher.FetchAll(ctx, region, keywords)

	keywordStatus := entity.StatusSuccess
	if stats.Succeeded == 0 {
		keywordStatus = entity.StatusFailed
	}

	merged, additional := uc.merger.Merge(areaRecords, keywordRecords)

	duration := time.Since(started)
	metrics.PipelineDuration.WithLabelValues(region).Observe(duration.Seconds())

	payload := &repository.CachedAggregation{
		Records:    merged,
		Additional: additional,
		CreatedAt:  time.Now(),
	}

	cached := false
	// Only a run with at least one usable upstream source is worth caching
	// for a day; a doubly-failed run should be retried on the next request.
	if areaStatus == entity.StatusSuccess || keywordStatus == entity.StatusSuccess {
		stored, err := uc.cache.Put(ctx, key, payload)
		if err != nil {
			slog.Warn("Cache write failed", "key", key, "error", err)
		} else {
			// stored is false when the adapter skipped an oversized
			// payload; the run row must not claim a cache entry exists.
			cached = stored
		}
	}

	uc.saveRun(ctx, &entity.PipelineRun{
		ID:               uuid.NewString(),
		Region:           region,
		AreaCount:        len(areaRecords),
		KeywordAttempted: stats.Attempted,
		KeywordSucceeded: stats.Succeeded,
		KeywordFailed:    stats.Failed,
		MergedCount:      len(merged),
		Cached:           cached,
		DurationMS:       duration.Milliseconds(),
		StartedAt:        started,
	})

	return &bulkOutcome{
		payload:       payload,
		areaStatus:    areaStatus,
		keywordStatus: keywordStatus,
	}
}

// saveRun persists the run record best-effort; failures are logged, never
// surfaced to the caller.
func (uc *aggregatorUseCase) saveRun(ctx context.Context, run *entity.PipelineRun) {
	if uc.runLog == nil {
		return
	}
	if err := uc.runLog.Save(ctx, run); err != nil {
		slog.Warn("Failed to persist pipeline run", "run_id", run.ID, "error", err)
	}
}

func (uc *aggregatorUseCase) RecentRuns(ctx context.Context, limit int) ([]*entity.PipelineRun, error) {
	if uc.runLog == nil {
		return []*entity.PipelineRun{}, nil
	}
	return uc.runLog.FindRecent(ctx, limit)
}
