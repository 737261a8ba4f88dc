package shootqueue

import (
	"context"

	"github.com/riverqueue/river"
)

// ExportWorker runs ExportJobs on River.
type ExportWorker struct {
	river.WorkerDefaults[ExportJob]
	runner *ExportRunner
}

func NewExportWorker(runner *ExportRunner) *ExportWorker {
	return &ExportWorker{runner: runner}
}

func (w *ExportWorker) Work(ctx context.Context, job *river.Job[ExportJob]) error {
	return w.runner.Run(ctx, job.Args)
}
