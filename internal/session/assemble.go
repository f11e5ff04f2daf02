package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gonyrida/sitedaily/internal/constants"
	"github.com/gonyrida/sitedaily/internal/logging"
	"github.com/gonyrida/sitedaily/internal/models/dtos"
	"github.com/gonyrida/sitedaily/internal/normalize"
	"github.com/gonyrida/sitedaily/internal/providers"
)

// ValidationError reports required fields missing at submit or export
// time. It is raised before any network call and aborts the operation
// with no partial side effects.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is a client-side validation
// failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Assemble returns the canonical draft for the current form state.
func (s *ReportSession) Assemble() *dtos.ReportDraft {
	return s.Current()
}

// AssembleForUpload produces the payload shape that leaves the process:
// every resource table cleaned of half-empty rows and every photo
// reference inlined to a self-contained value. Runs before every remote
// save, submit and export.
func (s *ReportSession) AssembleForUpload(ctx context.Context) (*dtos.ReportDraft, error) {
	draft := s.Current()
	if draft == nil {
		return nil, &ValidationError{Field: "reportDate", Message: constants.MsgReportDateRequired}
	}
	cleaned := normalize.CleanDraft(draft)
	return normalize.InlineImages(ctx, cleaned)
}

// Validate checks the fields required before a submit or export.
func (s *ReportSession) Validate() error {
	draft := s.Current()
	if draft == nil || strings.TrimSpace(draft.ReportDate) == "" {
		return &ValidationError{Field: "reportDate", Message: constants.MsgReportDateRequired}
	}
	if strings.TrimSpace(draft.ProjectName) == "" {
		return &ValidationError{Field: "projectName", Message: constants.MsgProjectNameRequired}
	}
	if strings.TrimSpace(draft.ActivityToday) == "" {
		return &ValidationError{Field: "activityToday", Message: constants.MsgActivityRequired}
	}
	return nil
}

// Save persists the current draft to the remote store, binding the
// server-assigned id into the session on first save. Unlike autosave
// this is a user-initiated action, so failures are returned to the
// caller.
func (s *ReportSession) Save(ctx context.Context) (string, error) {
	payload, err := s.AssembleForUpload(ctx)
	if err != nil {
		return "", err
	}

	id, err := s.store.Save(ctx, payload)
	if err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}

	s.mu.Lock()
	if s.draft != nil && s.draft.ReportDate == payload.ReportDate {
		s.draft.ReportID = id
	}
	s.mu.Unlock()

	s.SaveLocal()
	return id, nil
}

// Submit validates, saves and submits the report for day N, then clears
// day N's local draft and pre-seeds day N+1 with the carried-forward
// running totals, so tomorrow's report already reflects today's closing
// quantities before any explicit navigation.
func (s *ReportSession) Submit(ctx context.Context) (*dtos.SubmitResponse, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	payload, err := s.AssembleForUpload(ctx)
	if err != nil {
		return nil, err
	}

	id, err := s.store.Save(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("save before submit: %w", err)
	}

	resp, err := s.store.Submit(ctx, payload.ProjectName, payload.ReportDate)
	if err != nil {
		return nil, fmt.Errorf("submit report: %w", err)
	}

	s.mu.Lock()
	if s.draft != nil && s.draft.ReportDate == payload.ReportDate {
		s.draft.ReportID = id
	}
	s.mu.Unlock()

	if err := s.drafts.Delete(payload.ReportDate); err != nil {
		logging.Warn("failed to clear submitted local draft",
			"report_date", payload.ReportDate, "error", err.Error())
	}
	if next, nerr := dtos.NextDay(payload.ReportDate); nerr == nil {
		seed := DeriveNextDay(payload, next)
		if err := s.drafts.Put(next, seed); err != nil {
			logging.Warn("failed to seed next day's draft",
				"report_date", next, "error", err.Error())
		}
	}

	logging.WithReport(id, payload.ReportDate).Infow("report submitted",
		"project", payload.ProjectName,
	)
	return resp, nil
}

// Export validates and assembles the current report, then requests a
// generated document from the export service.
func (s *ReportSession) Export(ctx context.Context, mode providers.ExportMode) (*providers.ExportResult, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	payload, err := s.AssembleForUpload(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.exporter.Export(ctx, payload, mode)
	if err != nil {
		return nil, fmt.Errorf("export report: %w", err)
	}
	return result, nil
}

// DeleteRemote removes the bound remote report and unbinds its id. The
// in-memory draft and local snapshot are kept so the user can re-save.
func (s *ReportSession) DeleteRemote(ctx context.Context) error {
	s.mu.Lock()
	if s.draft == nil || s.draft.ReportID == "" {
		s.mu.Unlock()
		return nil
	}
	id := s.draft.ReportID
	s.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}

	s.mu.Lock()
	if s.draft != nil && s.draft.ReportID == id {
		s.draft.ReportID = ""
	}
	s.cancelPendingAutoSaveLocked()
	s.mu.Unlock()
	return nil
}
