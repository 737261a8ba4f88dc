package shootqueue

import (
	"context"

	"github.com/google/uuid"
)

// InlineQueue runs export jobs synchronously in the caller. It backs sqlite
// deployments and tests, where River is not available.
type InlineQueue struct {
	runner *ExportRunner
}

func NewInlineQueue(runner *ExportRunner) *InlineQueue {
	return &InlineQueue{runner: runner}
}

func (q *InlineQueue) EnqueueExport(ctx context.Context, shootID, exportID uuid.UUID) error {
	return q.runner.Run(ctx, ExportJob{ShootID: shootID, ExportID: exportID})
}
