package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gonyrida/sitedaily/internal/models/dtos"
	"github.com/gonyrida/sitedaily/internal/models/entities"
	gormModels "github.com/gonyrida/sitedaily/internal/models/gorm"
)

// ReportRepositoryGORM owns the write path: create/upsert, autosave
// patch merge, the submitted-status transition, and deletion. It also
// implements ReportReader so SQLite deployments can run without the
// sqlx handle.
type ReportRepositoryGORM struct {
	db *gorm.DB
}

var _ ReportReader = (*ReportRepositoryGORM)(nil)

func NewReportRepositoryGORM(db *gorm.DB) *ReportRepositoryGORM {
	return &ReportRepositoryGORM{db: db}
}

func (r *ReportRepositoryGORM) GetByDate(ctx context.Context, date string) (*entities.ReportRow, error) {
	var rec gormModels.Report
	err := r.db.WithContext(ctx).
		Where("report_date = ?", date).
		Order("updated_at DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return toRow(&rec), nil
}

func (r *ReportRepositoryGORM) GetByID(ctx context.Context, id string) (*entities.ReportRow, error) {
	var rec gormModels.Report
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return toRow(&rec), nil
}

// Upsert creates or updates the stored report for a draft. Identity is
// the embedded report id when present, otherwise the (project, date)
// join key. The returned id is always embedded back into the stored
// payload so clients learn it on the next load.
func (r *ReportRepositoryGORM) Upsert(ctx context.Context, draft *dtos.ReportDraft) (string, error) {
	var existing gormModels.Report
	var err error

	if draft.ReportID != "" {
		err = r.db.WithContext(ctx).Where("id = ?", draft.ReportID).First(&existing).Error
	} else {
		err = r.db.WithContext(ctx).
			Where("project_name = ? AND report_date = ?", draft.ProjectName, draft.ReportDate).
			Order("updated_at DESC").
			First(&existing).Error
	}

	switch {
	case err == nil:
		draft.ReportID = existing.ID
		payload, merr := json.Marshal(draft)
		if merr != nil {
			return "", fmt.Errorf("marshal report payload: %w", merr)
		}
		updates := map[string]interface{}{
			"project_name": draft.ProjectName,
			"report_date":  draft.ReportDate,
			"payload":      payload,
		}
		if uerr := r.db.WithContext(ctx).Model(&existing).Updates(updates).Error; uerr != nil {
			return "", fmt.Errorf("update report %s: %w", existing.ID, uerr)
		}
		return existing.ID, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		id := uuid.New().String()
		draft.ReportID = id
		payload, merr := json.Marshal(draft)
		if merr != nil {
			return "", fmt.Errorf("marshal report payload: %w", merr)
		}
		rec := gormModels.Report{
			ID:          id,
			ProjectName: draft.ProjectName,
			ReportDate:  draft.ReportDate,
			Status:      dtos.StatusDraft,
			Payload:     payload,
		}
		if cerr := r.db.WithContext(ctx).Create(&rec).Error; cerr != nil {
			return "", fmt.Errorf("create report: %w", cerr)
		}
		return id, nil

	default:
		return "", err
	}
}

// ApplyPatch merges an autosave partial update into the stored payload.
func (r *ReportRepositoryGORM) ApplyPatch(ctx context.Context, id string, patch *dtos.ReportPatch) error {
	var rec gormModels.Report
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReportNotFound
	}
	if err != nil {
		return err
	}

	var draft dtos.ReportDraft
	if len(rec.Payload) > 0 {
		if derr := json.Unmarshal(rec.Payload, &draft); derr != nil {
			return fmt.Errorf("decode stored payload for %s: %w", id, derr)
		}
	}
	draft.ReportID = rec.ID
	if draft.ReportDate == "" {
		draft.ReportDate = rec.ReportDate
	}

	mergePatch(&draft, patch)

	payload, merr := json.Marshal(&draft)
	if merr != nil {
		return fmt.Errorf("marshal patched payload: %w", merr)
	}
	updates := map[string]interface{}{
		"payload":      payload,
		"project_name": draft.ProjectName,
	}
	return r.db.WithContext(ctx).Model(&rec).Updates(updates).Error
}

// Submit transitions the report for (projectName, date) to submitted.
func (r *ReportRepositoryGORM) Submit(ctx context.Context, projectName, date string) (*gormModels.Report, error) {
	var rec gormModels.Report
	err := r.db.WithContext(ctx).
		Where("project_name = ? AND report_date = ?", projectName, date).
		Order("updated_at DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":       dtos.StatusSubmitted,
		"submitted_at": &now,
	}
	if uerr := r.db.WithContext(ctx).Model(&rec).Updates(updates).Error; uerr != nil {
		return nil, uerr
	}
	rec.Status = dtos.StatusSubmitted
	rec.SubmittedAt = &now
	return &rec, nil
}

// Delete soft-deletes a report.
func (r *ReportRepositoryGORM) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.Report{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}

// PurgeStale permanently removes soft-deleted rows and unsubmitted
// drafts that have not been touched within keepFor. Used by the
// retention job.
func (r *ReportRepositoryGORM) PurgeStale(ctx context.Context, keepFor time.Duration) (int64, error) {
	cutoff := time.Now().Add(-keepFor)

	res := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL").
		Or("status = ? AND updated_at < ?", dtos.StatusDraft, cutoff).
		Delete(&gormModels.Report{})
	return res.RowsAffected, res.Error
}

func toRow(rec *gormModels.Report) *entities.ReportRow {
	row := &entities.ReportRow{
		ID:          rec.ID,
		ProjectName: rec.ProjectName,
		ReportDate:  rec.ReportDate,
		Status:      rec.Status,
		Payload:     rec.Payload,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if rec.SubmittedAt != nil {
		row.SubmittedAt.Valid = true
		row.SubmittedAt.Time = *rec.SubmittedAt
	}
	return row
}

// mergePatch overlays every non-nil patch field onto the draft.
func mergePatch(d *dtos.ReportDraft, p *dtos.ReportPatch) {
	if p == nil {
		return
	}
	if p.ProjectName != nil {
		d.ProjectName = *p.ProjectName
	}
	if p.WeatherAM != nil {
		d.WeatherAM = *p.WeatherAM
	}
	if p.WeatherPM != nil {
		d.WeatherPM = *p.WeatherPM
	}
	if p.TempAM != nil {
		d.TempAM = *p.TempAM
	}
	if p.TempPM != nil {
		d.TempPM = *p.TempPM
	}
	if p.CurrentPeriod != nil {
		d.CurrentPeriod = *p.CurrentPeriod
	}
	if p.ActivityToday != nil {
		d.ActivityToday = *p.ActivityToday
	}
	if p.WorkPlanNextDay != nil {
		d.WorkPlanNextDay = *p.WorkPlanNextDay
	}
	if p.ManagementTeam != nil {
		d.ManagementTeam = *p.ManagementTeam
	}
	if p.WorkingTeamInterior != nil {
		d.WorkingTeamInterior = *p.WorkingTeamInterior
	}
	if p.WorkingTeamMEP != nil {
		d.WorkingTeamMEP = *p.WorkingTeamMEP
	}
	if p.Materials != nil {
		d.Materials = *p.Materials
	}
	if p.Machinery != nil {
		d.Machinery = *p.Machinery
	}
	if p.ReferenceSections != nil {
		d.ReferenceSections = *p.ReferenceSections
	}
	if p.CARSheet != nil {
		d.CARSheet = p.CARSheet
	}
}
