package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gonyrida/sitedaily/internal/common"
	"github.com/gonyrida/sitedaily/internal/db/repositories"
	"github.com/gonyrida/sitedaily/internal/metrics"
	"github.com/gonyrida/sitedaily/internal/models/dtos"
	gormModels "github.com/gonyrida/sitedaily/internal/models/gorm"
)

// One registry for the whole test binary; prometheus rejects duplicate
// metric registration.
var testMetrics = metrics.NewMetricsRegistry()

func setupTestRouter(t *testing.T) (*chi.Mux, *Dependencies) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&gormModels.Report{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	gormRepo := repositories.NewReportRepositoryGORM(db)
	deps := &Dependencies{
		Repo: &Repositories{
			Reader:  gormRepo,
			Reports: gormRepo,
		},
		Services: &Services{
			Cache: common.NewCacheService(60, 600),
		},
		Metrics: testMetrics,
	}

	handlers := NewHandlers(deps)
	r := chi.NewRouter()
	r.Get("/api/v1/reports/by-date/{date}", handlers.GetReportByDate)
	r.Get("/api/v1/reports/{id}", handlers.GetReportByID)
	r.Post("/api/v1/reports", handlers.SaveReport)
	r.Post("/api/v1/reports/{id}/autosave", handlers.AutoSaveReport)
	r.Post("/api/v1/reports/submit", handlers.SubmitReport)
	r.Delete("/api/v1/reports/{id}", handlers.DeleteReport)
	return r, deps
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if envelope.Status != "success" {
		t.Fatalf("Expected success envelope, got %s (%s)", envelope.Status, envelope.Error)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			t.Fatalf("Failed to decode data: %v", err)
		}
	}
}

func saveTestReport(t *testing.T, router http.Handler, date string) string {
	t.Helper()
	d := dtos.NewBlankDraft(date)
	d.ProjectName = "Harbor Tower"
	d.ActivityToday = "Pour level 3 slab"

	rec := doJSON(t, router, "POST", "/api/v1/reports", d)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on save, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dtos.SaveReportResponse
	decodeData(t, rec, &resp)
	if resp.ID == "" {
		t.Fatal("Expected a server-assigned id")
	}
	return resp.ID
}

func TestSaveAndGetByDate(t *testing.T) {
	router, _ := setupTestRouter(t)

	id := saveTestReport(t, router, "2026-08-27")

	rec := doJSON(t, router, "GET", "/api/v1/reports/by-date/2026-08-27", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var draft dtos.ReportDraft
	decodeData(t, rec, &draft)
	if draft.ReportID != id {
		t.Errorf("Expected id %s, got %s", id, draft.ReportID)
	}
	if draft.ActivityToday != "Pour level 3 slab" {
		t.Errorf("Expected stored activity, got %q", draft.ActivityToday)
	}
}

func TestGetByDate_NotFound(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, "GET", "/api/v1/reports/by-date/2026-08-27", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing date, got %d", rec.Code)
	}
}

func TestGetByDate_InvalidDate(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, "GET", "/api/v1/reports/by-date/yesterday", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed date, got %d", rec.Code)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, "GET", "/api/v1/reports/no-such-id", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing id, got %d", rec.Code)
	}
}

func TestSaveReport_MigratesLegacyPayload(t *testing.T) {
	router, _ := setupTestRouter(t)

	legacy := map[string]interface{}{
		"projectName":   "Harbor Tower",
		"reportDate":    "2026-08-27",
		"weather":       "Rainy",
		"weatherPeriod": "PM",
		"temperature":   "19C",
		"workingTeam":   []map[string]interface{}{{"description": "Mason", "today": 4}},
	}
	rec := doJSON(t, router, "POST", "/api/v1/reports", legacy)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	get := doJSON(t, router, "GET", "/api/v1/reports/by-date/2026-08-27", nil)
	var draft dtos.ReportDraft
	decodeData(t, get, &draft)
	if draft.WeatherPM != "Rainy" || draft.TempPM != "19C" {
		t.Errorf("Expected migrated PM weather stored, got %q/%q", draft.WeatherPM, draft.TempPM)
	}
	if len(draft.WorkingTeamInterior) != 1 {
		t.Errorf("Expected legacy working team folded, got %+v", draft.WorkingTeamInterior)
	}
}

func TestSaveReport_InvalidDate(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/reports", map[string]string{"reportDate": "bad"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestAutoSave_MergesPatch(t *testing.T) {
	router, _ := setupTestRouter(t)
	id := saveTestReport(t, router, "2026-08-27")

	rec := doJSON(t, router, "POST", "/api/v1/reports/"+id+"/autosave", map[string]interface{}{
		"weatherAM": "Stormy",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var ack dtos.AutoSaveResponse
	decodeData(t, rec, &ack)
	if !ack.Success || ack.SavedAt.IsZero() {
		t.Errorf("Expected success ack with timestamp, got %+v", ack)
	}

	get := doJSON(t, router, "GET", "/api/v1/reports/"+id, nil)
	var draft dtos.ReportDraft
	decodeData(t, get, &draft)
	if draft.WeatherAM != "Stormy" {
		t.Errorf("Expected patched weather, got %q", draft.WeatherAM)
	}
	if draft.ActivityToday != "Pour level 3 slab" {
		t.Errorf("Expected unpatched field preserved, got %q", draft.ActivityToday)
	}
}

func TestAutoSave_UnknownID(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/reports/ghost/autosave", map[string]string{})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestSubmitReport(t *testing.T) {
	router, _ := setupTestRouter(t)
	id := saveTestReport(t, router, "2026-08-27")

	rec := doJSON(t, router, "POST", "/api/v1/reports/submit", dtos.SubmitRequest{
		ProjectName: "Harbor Tower",
		ReportDate:  "2026-08-27",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dtos.SubmitResponse
	decodeData(t, rec, &resp)
	if resp.ID != id {
		t.Errorf("Expected id %s, got %s", id, resp.ID)
	}
	if resp.Status != dtos.StatusSubmitted {
		t.Errorf("Expected submitted status, got %s", resp.Status)
	}
	if resp.SubmittedAt.IsZero() {
		t.Error("Expected a submission timestamp")
	}
}

func TestSubmitReport_MissingReport(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/reports/submit", dtos.SubmitRequest{
		ProjectName: "Harbor Tower",
		ReportDate:  "2026-08-27",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestDeleteReport(t *testing.T) {
	router, _ := setupTestRouter(t)
	id := saveTestReport(t, router, "2026-08-27")

	rec := doJSON(t, router, "DELETE", "/api/v1/reports/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	get := doJSON(t, router, "GET", "/api/v1/reports/"+id, nil)
	if get.Code != http.StatusNotFound {
		t.Errorf("Expected deleted report gone, got %d", get.Code)
	}

	again := doJSON(t, router, "DELETE", "/api/v1/reports/"+id, nil)
	if again.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on double delete, got %d", again.Code)
	}
}

func TestGetByDate_ServesCachedValueUntilInvalidated(t *testing.T) {
	router, deps := setupTestRouter(t)
	id := saveTestReport(t, router, "2026-08-27")

	// Prime the cache.
	doJSON(t, router, "GET", "/api/v1/reports/by-date/2026-08-27", nil)

	// Change the row behind the cache's back; a repository write does
	// not invalidate, only the handlers do.
	activity := "bypassed the handlers"
	if err := deps.Repo.Reports.ApplyPatch(context.Background(), id, &dtos.ReportPatch{
		ActivityToday: &activity,
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	rec := doJSON(t, router, "GET", "/api/v1/reports/by-date/2026-08-27", nil)
	var draft dtos.ReportDraft
	decodeData(t, rec, &draft)
	if draft.ActivityToday != "Pour level 3 slab" {
		t.Errorf("Expected the cached read to win within the TTL, got %q", draft.ActivityToday)
	}

	// An invalidating write makes the next read fresh.
	deps.Services.Cache.Delete(cacheKeyForDate("2026-08-27"))
	rec = doJSON(t, router, "GET", "/api/v1/reports/by-date/2026-08-27", nil)
	decodeData(t, rec, &draft)
	if draft.ActivityToday != "bypassed the handlers" {
		t.Errorf("Expected a fresh read after invalidation, got %q", draft.ActivityToday)
	}
}

func TestSave_InvalidatesByDateCache(t *testing.T) {
	router, deps := setupTestRouter(t)
	saveTestReport(t, router, "2026-08-27")

	// Prime the cache.
	doJSON(t, router, "GET", "/api/v1/reports/by-date/2026-08-27", nil)
	if _, found := deps.Services.Cache.Get(cacheKeyForDate("2026-08-27")); !found {
		t.Fatal("Expected cache primed after read")
	}

	d := dtos.NewBlankDraft("2026-08-27")
	d.ProjectName = "Harbor Tower"
	d.ActivityToday = "Strike formwork"
	doJSON(t, router, "POST", "/api/v1/reports", d)

	if _, found := deps.Services.Cache.Get(cacheKeyForDate("2026-08-27")); found {
		t.Error("Expected cache invalidated after write")
	}

	get := doJSON(t, router, "GET", "/api/v1/reports/by-date/2026-08-27", nil)
	var draft dtos.ReportDraft
	decodeData(t, get, &draft)
	if draft.ActivityToday != "Strike formwork" {
		t.Errorf("Expected fresh read after invalidation, got %q", draft.ActivityToday)
	}
}
