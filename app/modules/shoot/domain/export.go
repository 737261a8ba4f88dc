package shootdomain

import (
	"time"

	"github.com/google/uuid"
)

// ExportStatus tracks an asynchronous score sheet export.
type ExportStatus string

const (
	ExportPending   ExportStatus = "pending"
	ExportCompleted ExportStatus = "completed"
	ExportFailed    ExportStatus = "failed"
)

// ExportFormatXLSX is the only score sheet format produced today.
const ExportFormatXLSX = "xlsx"

// Export is a requested score sheet. Content is set once Status is completed.
type Export struct {
	ID          uuid.UUID
	ShootID     uuid.UUID
	Status      ExportStatus
	Format      string
	Content     []byte
	Error       string
	RequestedAt time.Time
	CompletedAt *time.Time
}
