package session

import (
	"context"
	"testing"

	"github.com/gonyrida/sitedaily/internal/draftstore"
	"github.com/gonyrida/sitedaily/internal/models/dtos"
	"github.com/gonyrida/sitedaily/internal/providers"
)

func selectAndFill(t *testing.T, sess *ReportSession, date string) {
	t.Helper()
	if _, err := sess.SelectDate(context.Background(), date); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	sess.Update(func(d *dtos.ReportDraft) {
		d.ProjectName = "Harbor Tower"
		d.ActivityToday = "Pour level 3 slab"
	})
}

func TestValidate_RequiredFields(t *testing.T) {
	sess := newTestSession(nil, nil)
	defer sess.Close()

	if _, err := sess.SelectDate(context.Background(), "2026-08-27"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	err := sess.Validate()
	if !IsValidationError(err) {
		t.Fatalf("Expected validation error on empty form, got %v", err)
	}

	sess.Update(func(d *dtos.ReportDraft) { d.ProjectName = "Harbor Tower" })
	err = sess.Validate()
	if !IsValidationError(err) {
		t.Fatalf("Expected validation error without activity, got %v", err)
	}

	sess.Update(func(d *dtos.ReportDraft) { d.ActivityToday = "Pour level 3 slab" })
	if err := sess.Validate(); err != nil {
		t.Errorf("Expected complete form to validate, got %v", err)
	}
}

func TestAssembleForUpload_CleansRows(t *testing.T) {
	sess := newTestSession(nil, nil)
	defer sess.Close()
	selectAndFill(t, sess, "2026-08-27")

	sess.Update(func(d *dtos.ReportDraft) {
		d.Materials = []dtos.ResourceRow{
			{Description: "Cement", Today: 8},
			{Description: "   "},
			{},
		}
	})

	payload, err := sess.AssembleForUpload(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(payload.Materials) != 1 {
		t.Errorf("Expected half-empty rows dropped, got %d", len(payload.Materials))
	}

	// The form itself keeps its in-progress rows.
	if len(sess.Current().Materials) != 3 {
		t.Error("Expected assembly to leave the live draft untouched")
	}
}

func TestSave_BindsReturnedID(t *testing.T) {
	store := &mockReportStore{
		SaveFunc: func(ctx context.Context, draft *dtos.ReportDraft) (string, error) {
			return "rep-42", nil
		},
	}
	drafts := draftstore.NewMemoryStore()
	sess := newTestSession(store, drafts)
	defer sess.Close()
	selectAndFill(t, sess, "2026-08-27")

	id, err := sess.Save(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if id != "rep-42" {
		t.Errorf("Expected rep-42, got %s", id)
	}
	if sess.Current().ReportID != "rep-42" {
		t.Error("Expected the server id bound into the session")
	}

	stored, found, _ := drafts.Get("2026-08-27")
	if !found || stored.ReportID != "rep-42" {
		t.Error("Expected local snapshot written with the bound id")
	}
}

func TestSubmit_ValidationBlocksNetwork(t *testing.T) {
	saveCalled := false
	store := &mockReportStore{
		SaveFunc: func(ctx context.Context, draft *dtos.ReportDraft) (string, error) {
			saveCalled = true
			return "rep-42", nil
		},
	}
	sess := newTestSession(store, nil)
	defer sess.Close()

	if _, err := sess.SelectDate(context.Background(), "2026-08-27"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := sess.Submit(context.Background()); !IsValidationError(err) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if saveCalled {
		t.Error("Expected no network call when validation fails")
	}
}

func TestSubmit_ClearsDayAndSeedsNext(t *testing.T) {
	drafts := draftstore.NewMemoryStore()
	sess := newTestSession(nil, drafts)
	defer sess.Close()
	selectAndFill(t, sess, "2026-08-27")

	sess.Update(func(d *dtos.ReportDraft) {
		d.Materials = []dtos.ResourceRow{
			{ID: "m1", Description: "Cement", Unit: "bags", Prev: 5, Today: 3, Accumulated: 8},
		}
	})
	sess.SaveLocal()

	resp, err := sess.Submit(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Status != dtos.StatusSubmitted {
		t.Errorf("Expected submitted status, got %s", resp.Status)
	}

	if _, found, _ := drafts.Get("2026-08-27"); found {
		t.Error("Expected submitted day's local draft cleared")
	}

	seed, found, err := drafts.Get("2026-08-28")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !found {
		t.Fatal("Expected next day's draft pre-seeded")
	}
	if len(seed.Materials) != 1 {
		t.Fatalf("Expected 1 seeded material row, got %d", len(seed.Materials))
	}
	row := seed.Materials[0]
	if row.Prev != 8 || row.Today != 0 || row.Accumulated != 8 {
		t.Errorf("Expected prev=8 today=0 accumulated=8, got %+v", row)
	}
	if seed.ActivityToday != "" {
		t.Errorf("Expected activity reset in the seed, got %q", seed.ActivityToday)
	}
}

func TestExport_PassesModeAndPayload(t *testing.T) {
	var gotMode providers.ExportMode
	var gotRows int
	sess := newTestSession(nil, nil)
	sess.exporter = &mockExporter{
		ExportFunc: func(ctx context.Context, draft *dtos.ReportDraft, mode providers.ExportMode) (*providers.ExportResult, error) {
			gotMode = mode
			gotRows = len(draft.Materials)
			return &providers.ExportResult{Filename: "out.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}, nil
		},
	}
	defer sess.Close()
	selectAndFill(t, sess, "2026-08-27")

	sess.Update(func(d *dtos.ReportDraft) {
		d.Materials = []dtos.ResourceRow{{Description: "Cement", Today: 8}, {}}
	})

	result, err := sess.Export(context.Background(), providers.ExportModeCombined)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if gotMode != providers.ExportModeCombined {
		t.Errorf("Expected combined mode, got %s", gotMode)
	}
	if gotRows != 1 {
		t.Errorf("Expected cleaned payload with 1 row, got %d", gotRows)
	}
	if result.Filename != "out.pdf" {
		t.Errorf("Expected service filename, got %s", result.Filename)
	}
}

func TestDeleteRemote_UnbindsID(t *testing.T) {
	deleted := ""
	store := &mockReportStore{
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	sess := newTestSession(store, nil)
	defer sess.Close()
	bindReportID(t, sess, "2026-08-27", "rep-9")

	if err := sess.DeleteRemote(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if deleted != "rep-9" {
		t.Errorf("Expected delete of rep-9, got %q", deleted)
	}
	if sess.Current().ReportID != "" {
		t.Error("Expected id unbound after delete")
	}
}
