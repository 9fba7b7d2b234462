package usecase

import (
	"log/slog"

	"github.com/user/petplaces-service/internal/curated"
	"github.com/user/petplaces-service/internal/entity"
)

// Result-count band for the bulk pipeline. The curated keyword list is
// sized so a healthy run lands around 90-100 records; anything above the
// upper bound is truncated from the tail, a shortfall is logged only.
const (
	DefaultMaxMergedResults = 110
	DefaultMinMergedResults = 80
)

// MergeEngine combines upstream sources with the curated dataset into one
// canonical list. All methods are pure with respect to their inputs:
// identical inputs yield byte-identical output ordering.
type MergeEngine struct {
	dataset    *curated.Dataset
	maxResults int
	minResults int
}

// NewMergeEngine creates a merge engine over the curated dataset.
func NewMergeEngine(dataset *curated.Dataset, maxResults, minResults int) *MergeEngine {
	if maxResults <= 0 {
		maxResults = DefaultMaxMergedResults
	}
	if minResults <= 0 {
		minResults = DefaultMinMergedResults
	}
	return &MergeEngine{dataset: dataset, maxResults: maxResults, minResults: minResults}
}

// Merge deduplicates, enriches and reconciles the two upstream sources.
// Precedence is explicit: sources are consumed in the order given here,
// area-list before keyword-batch, and the first occurrence of an identity
// wins. Empty inputs are valid and contribute nothing.
//
// The second return value lists curated places that had no upstream
// counterpart and were appended as standalone records; these also appear
// in the merged list.
func (m *MergeEngine) Merge(areaRecords, keywordRecords []entity.PlaceRecord) ([]entity.PlaceRecord, []entity.PlaceRecord) {
	sources := [][]entity.PlaceRecord{areaRecords, keywordRecords}

	// Dedup by composite identity, first occurrence wins.
	seen := make(map[string]struct{})
	var merged []entity.PlaceRecord
	for _, records := range sources {
		for _, rec := range records {
			if rec.Title == "" {
				continue
			}
			id := rec.Identity()
			if rec.ContentID == "" && rec.MapX == "" && rec.MapY == "" {
				slog.Debug("Dedup key degraded to bare title", "title", rec.Title)
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, rec)
		}
	}

	// Enrich surviving records by exact title match. A missing curated
	// counterpart is expected; the dataset is partial by design.
	titles := make(map[string]struct{}, len(merged))
	for i := range merged {
		titles[merged[i].Title] = struct{}{}
		if cp, ok := m.dataset.ByTitle(merged[i].Title); ok {
			holiday := cp.HolidayOpen
			merged[i].LocationGubun = cp.LocationGubun
			merged[i].WithGubun = cp.WithGubun
			merged[i].HolidayOpen = &holiday
		}
	}

	// Reconcile: curated places the upstream failed to return are appended
	// as standalone records, so known-good venues are never dropped. With
	// no upstream id the identity degrades to the exact title (curated
	// titles are unique within the dataset).
	var additional []entity.PlaceRecord
	for _, cp := range m.dataset.Places() {
		if _, ok := titles[cp.Title]; ok {
			continue
		}
		rec := cp.Record()
		merged = append(merged, rec)
		additional = append(additional, rec)
	}

	// Enforce the count band: clamp above the upper bound, stable order,
	// drop from the tail. A shortfall is valid; upstream flakiness is
	// expected, not fatal.
	if len(merged) > m.maxResults {
		slog.Warn("Merged result above bound, truncating",
			"count", len(merged), "max", m.maxResults)
		merged = merged[:m.maxResults]
	} else if len(merged) < m.minResults {
		slog.Warn("Merged result below expected band",
			"count", len(merged), "min", m.minResults)
	}

	return merged, additional
}
