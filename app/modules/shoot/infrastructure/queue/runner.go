package shootqueue

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	shootservice "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/application"
	shootdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/domain"
	"github.com/Black-And-White-Club/archery-scorer/internal/handlerwrapper"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability/attr"
	shootevents "github.com/Black-And-White-Club/archery-scorer/pkg/events/shoot"
)

// Generator builds and stores export workbooks.
type Generator interface {
	GenerateExport(ctx context.Context, exportID uuid.UUID) (shootdomain.Export, error)
}

// ExportRunner executes export jobs and announces their outcome.
type ExportRunner struct {
	generator Generator
	publisher message.Publisher
	logger    *slog.Logger
}

// NewExportRunner creates a runner. A nil publisher skips the outcome events.
func NewExportRunner(generator Generator, publisher message.Publisher, logger *slog.Logger) *ExportRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportRunner{generator: generator, publisher: publisher, logger: logger}
}

// Run generates one export. Domain failures are published and swallowed;
// anything else is returned so the job is retried.
func (r *ExportRunner) Run(ctx context.Context, job ExportJob) error {
	logger := r.logger.With(
		attr.ShootID(job.ShootID),
		attr.String("export_id", job.ExportID.String()),
	)

	export, err := r.generator.GenerateExport(ctx, job.ExportID)
	if err != nil {
		if shootservice.IsDomainFailure(err) {
			logger.WarnContext(ctx, "Export failed", attr.Error(err))
			return r.publish(ctx, shootevents.ShootExportFailedV1, &shootevents.ShootExportFailedPayloadV1{
				ShootID:  job.ShootID,
				ExportID: job.ExportID,
				Reason:   err.Error(),
			})
		}
		return err
	}

	completedAt := export.RequestedAt
	if export.CompletedAt != nil {
		completedAt = *export.CompletedAt
	}
	logger.InfoContext(ctx, "Export completed", attr.Int("bytes", len(export.Content)))
	return r.publish(ctx, shootevents.ShootExportCompletedV1, &shootevents.ShootExportCompletedPayloadV1{
		ShootID:     export.ShootID,
		ExportID:    export.ID,
		Format:      export.Format,
		Size:        len(export.Content),
		CompletedAt: completedAt,
	})
}

func (r *ExportRunner) publish(ctx context.Context, topic string, payload any) error {
	if r.publisher == nil {
		return nil
	}
	msg, err := handlerwrapper.NewMessage(ctx, handlerwrapper.Result{Topic: topic, Payload: payload})
	if err != nil {
		return err
	}
	return r.publisher.Publish(topic, msg)
}
