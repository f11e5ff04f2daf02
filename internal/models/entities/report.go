package entities

import (
	"database/sql"
	"time"
)

// ReportRow is the sqlx projection of a stored report used by the
// raw-SQL read path.
type ReportRow struct {
	ID          string       `db:"id"`
	ProjectName string       `db:"project_name"`
	ReportDate  string       `db:"report_date"`
	Status      string       `db:"status"`
	Payload     []byte       `db:"payload"`
	SubmittedAt sql.NullTime `db:"submitted_at"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}
