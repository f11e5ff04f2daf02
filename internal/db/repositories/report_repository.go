package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/gonyrida/sitedaily/internal/constants"
	"github.com/gonyrida/sitedaily/internal/models/entities"
)

// ErrReportNotFound is returned by every repository lookup that comes
// up empty, regardless of the backing driver.
var ErrReportNotFound = errors.New("report not found")

// ReportReader is the lookup contract the handlers read through. The
// sqlx implementation below serves Postgres deployments; the GORM
// repository provides the same view for SQLite ones.
type ReportReader interface {
	GetByDate(ctx context.Context, date string) (*entities.ReportRow, error)
	GetByID(ctx context.Context, id string) (*entities.ReportRow, error)
}

// ReportRepository is the raw-SQL read path over sqlx.
type ReportRepository struct {
	db *sqlx.DB
}

var _ ReportReader = (*ReportRepository)(nil)

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db}
}

// GetByDate returns the most recently updated report for a calendar
// date.
func (r *ReportRepository) GetByDate(ctx context.Context, date string) (*entities.ReportRow, error) {

	var row entities.ReportRow

	err := r.db.QueryRowxContext(ctx, constants.GetReportByDate, date).StructScan(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}

	return &row, nil
}

// GetByID returns a report by its identifier.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*entities.ReportRow, error) {

	var row entities.ReportRow

	err := r.db.QueryRowxContext(ctx, constants.GetReportByID, id).StructScan(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}

	return &row, nil
}
