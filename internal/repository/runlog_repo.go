package repository

import (
	"context"

	"github.com/user/petplaces-service/internal/entity"
)

// RunLogRepository persists per-run pipeline observability rows.
type RunLogRepository interface {
	// Save appends one run record.
	Save(ctx context.Context, run *entity.PipelineRun) error
	// FindRecent retrieves the most recent runs, newest first.
	FindRecent(ctx context.Context, limit int) ([]*entity.PipelineRun, error)
}
