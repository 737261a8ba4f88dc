package shootqueue

import "github.com/google/uuid"

// ExportJob generates the workbook of one pending score sheet export.
type ExportJob struct {
	ShootID  uuid.UUID `json:"shoot_id"`
	ExportID uuid.UUID `json:"export_id"`
}

// Kind returns the job type identifier for River
func (ExportJob) Kind() string { return "shoot_export" }
