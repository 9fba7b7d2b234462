package entity

import "time"

// PipelineRun mirrors the `pipeline_runs` PostgreSQL table schema. One row
// is appended per bulk aggregation run, best-effort.
type PipelineRun struct {
	ID               string
	Region           string
	AreaCount        int
	KeywordAttempted int
	KeywordSucceeded int
	KeywordFailed    int
	MergedCount      int
	Cached           bool
	DurationMS       int64
	StartedAt        time.Time
}
