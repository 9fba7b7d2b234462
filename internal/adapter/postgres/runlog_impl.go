package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/petplaces-service/internal/entity"
)

// RunLogRepoImpl provides a concrete implementation for the
// RunLogRepository interface using PostgreSQL.
type RunLogRepoImpl struct {
	db *pgxpool.Pool
}

// NewRunLogRepo creates a new instance of RunLogRepoImpl.
func NewRunLogRepo(db *pgxpool.Pool) *RunLogRepoImpl {
	return &RunLogRepoImpl{db: db}
}

// Save appends one pipeline run record.
func (r *RunLogRepoImpl) Save(ctx context.Context, run *entity.PipelineRun) error {
	query := `
		INSERT INTO pipeline_runs (id, region, area_count, keyword_attempted, keyword_succeeded, keyword_failed, merged_count, cached, duration_ms, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.db.Exec(ctx, query,
		run.ID,
		run.Region,
		run.AreaCount,
		run.KeywordAttempted,
		run.KeywordSucceeded,
		run.KeywordFailed,
		run.MergedCount,
		run.Cached,
		run.DurationMS,
		run.StartedAt,
	)
	return err
}

// FindRecent retrieves the most recent pipeline runs, newest first.
func (r *RunLogRepoImpl) FindRecent(ctx context.Context, limit int) ([]*entity.PipelineRun, error) {
	query := `
		SELECT id, region, area_count, keyword_attempted, keyword_succeeded, keyword_failed, merged_count, cached, duration_ms, started_at
		FROM pipeline_runs
		ORDER BY started_at DESC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*entity.PipelineRun
	for rows.Next() {
		var run entity.PipelineRun
		if err := rows.Scan(
			&run.ID,
			&run.Region,
			&run.AreaCount,
			&run.KeywordAttempted,
			&run.KeywordSucceeded,
			&run.KeywordFailed,
			&run.MergedCount,
			&run.Cached,
			&run.DurationMS,
			&run.StartedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}

	return runs, rows.Err()
}
