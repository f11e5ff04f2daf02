package gorm

import (
	"time"

	"gorm.io/gorm"
)

// Report is one stored daily report. The form payload is kept as an
// opaque JSON document; the indexed columns exist only for lookup by
// date and for the submitted-status transition.
type Report struct {
	ID          string         `gorm:"column:id;primaryKey;type:uuid"`
	ProjectName string         `gorm:"column:project_name;type:text;not null;index:idx_reports_project_date"`
	ReportDate  string         `gorm:"column:report_date;type:varchar(10);not null;index;index:idx_reports_project_date"`
	Status      string         `gorm:"column:status;type:varchar(20);default:draft;index"`
	Payload     []byte         `gorm:"column:payload;type:jsonb"`
	SubmittedAt *time.Time     `gorm:"column:submitted_at"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

// TableName specifies the table name for GORM
func (Report) TableName() string {
	return "reports"
}
