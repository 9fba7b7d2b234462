package response

import "time"

// RunResponse is a DTO for one pipeline run row.
type RunResponse struct {
	ID               string    `json:"id"`
	Region           string    `json:"region"`
	AreaCount        int       `json:"area_count"`
	KeywordAttempted int       `json:"keyword_attempted"`
	KeywordSucceeded int       `json:"keyword_succeeded"`
	KeywordFailed    int       `json:"keyword_failed"`
	MergedCount      int       `json:"merged_count"`
	Cached           bool      `json:"cached"`
	DurationMS       int64     `json:"duration_ms"`
	StartedAt        time.Time `json:"started_at"`
}

// RunsResponse wraps the recent-runs listing.
type RunsResponse struct {
	Runs []RunResponse `json:"runs"`
}
