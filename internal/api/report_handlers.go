package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gonyrida/sitedaily/internal/db/repositories"
	"github.com/gonyrida/sitedaily/internal/logging"
	"github.com/gonyrida/sitedaily/internal/models/dtos"
	"github.com/gonyrida/sitedaily/internal/models/entities"
	"github.com/gonyrida/sitedaily/internal/normalize"
)

// byDateCacheTTL bounds how stale a cached by-date lookup may be. Every
// write path invalidates the affected date, so this only covers crashes
// between write and invalidation.
const byDateCacheTTL = 30 * time.Second

func cacheKeyForDate(date string) string {
	return "report:date:" + date
}

// GetReportByDate handles GET /api/v1/reports/by-date/{date}
func (h *Handlers) GetReportByDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := dtos.ParseReportDate(date); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Read-through: the loader only runs on a cache miss, and misses
	// with errors (including 404s) are never cached.
	hit := true
	cached, err := h.deps.Services.Cache.GetOrSet(cacheKeyForDate(date), byDateCacheTTL, func() (any, error) {
		hit = false
		h.deps.Metrics.CacheMissesTotal.WithLabelValues("report:date").Inc()

		row, rerr := h.deps.Repo.Reader.GetByDate(r.Context(), date)
		if rerr != nil {
			return nil, rerr
		}
		draft, derr := draftFromRow(row)
		if derr != nil {
			logging.Error("stored payload is unreadable", "report_id", row.ID, "error", derr.Error())
			return nil, derr
		}
		data, merr := json.Marshal(draft)
		if merr != nil {
			return nil, merr
		}
		return string(data), nil
	})
	if hit {
		h.deps.Metrics.CacheHitsTotal.WithLabelValues("report:date").Inc()
	}
	if errors.Is(err, repositories.ErrReportNotFound) {
		respondWithError(w, http.StatusNotFound, "no report exists for "+date)
		return
	}
	if err != nil {
		logging.Error("report lookup by date failed", "report_date", date, "error", err.Error())
		respondWithError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	draft, ok := decodeCachedDraft(cached)
	if !ok {
		h.deps.Services.Cache.Delete(cacheKeyForDate(date))
		respondWithError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	respondWithSuccess(w, http.StatusOK, draft)
}

// GetReportByID handles GET /api/v1/reports/{id}
func (h *Handlers) GetReportByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	row, err := h.deps.Repo.Reader.GetByID(r.Context(), id)
	if errors.Is(err, repositories.ErrReportNotFound) {
		respondWithError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		logging.Error("report lookup by id failed", "report_id", id, "error", err.Error())
		respondWithError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	draft, err := draftFromRow(row)
	if err != nil {
		logging.Error("stored payload is unreadable", "report_id", id, "error", err.Error())
		respondWithError(w, http.StatusInternalServerError, "stored report payload is unreadable")
		return
	}
	respondWithSuccess(w, http.StatusOK, draft)
}

// SaveReport handles POST /api/v1/reports (create or upsert)
func (h *Handlers) SaveReport(w http.ResponseWriter, r *http.Request) {
	var raw dtos.RawReportDraft
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid report payload")
		return
	}
	draft := normalize.Draft(&raw)
	if _, err := dtos.ParseReportDate(draft.ReportDate); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.deps.Repo.Reports.Upsert(r.Context(), draft)
	if err != nil {
		logging.Error("report upsert failed", "report_date", draft.ReportDate, "error", err.Error())
		respondWithError(w, http.StatusInternalServerError, "failed to save report")
		return
	}

	h.deps.Services.Cache.Delete(cacheKeyForDate(draft.ReportDate))
	h.deps.Metrics.ReportsSavedTotal.Inc()
	respondWithSuccess(w, http.StatusOK, &dtos.SaveReportResponse{ID: id})
}

// AutoSaveReport handles POST /api/v1/reports/{id}/autosave
func (h *Handlers) AutoSaveReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch dtos.ReportPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid autosave payload")
		return
	}

	err := h.deps.Repo.Reports.ApplyPatch(r.Context(), id, &patch)
	if errors.Is(err, repositories.ErrReportNotFound) {
		h.deps.Metrics.AutoSavesTotal.WithLabelValues("not_found").Inc()
		respondWithError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		h.deps.Metrics.AutoSavesTotal.WithLabelValues("error").Inc()
		logging.Error("autosave patch failed", "report_id", id, "error", err.Error())
		respondWithError(w, http.StatusInternalServerError, "failed to apply autosave")
		return
	}

	if row, rerr := h.deps.Repo.Reader.GetByID(r.Context(), id); rerr == nil {
		h.deps.Services.Cache.Delete(cacheKeyForDate(row.ReportDate))
	}
	h.deps.Metrics.AutoSavesTotal.WithLabelValues("ok").Inc()
	respondWithSuccess(w, http.StatusOK, &dtos.AutoSaveResponse{
		Success: true,
		SavedAt: time.Now().UTC(),
	})
}

// SubmitReport handles POST /api/v1/reports/submit
func (h *Handlers) SubmitReport(w http.ResponseWriter, r *http.Request) {
	var req dtos.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid submit payload")
		return
	}
	if req.ProjectName == "" {
		respondWithError(w, http.StatusBadRequest, "projectName is required")
		return
	}
	if _, err := dtos.ParseReportDate(req.ReportDate); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.deps.Repo.Reports.Submit(r.Context(), req.ProjectName, req.ReportDate)
	if errors.Is(err, repositories.ErrReportNotFound) {
		respondWithError(w, http.StatusNotFound, "no report exists for "+req.ReportDate)
		return
	}
	if err != nil {
		logging.Error("report submit failed",
			"project", req.ProjectName, "report_date", req.ReportDate, "error", err.Error())
		respondWithError(w, http.StatusInternalServerError, "failed to submit report")
		return
	}

	h.deps.Services.Cache.Delete(cacheKeyForDate(req.ReportDate))
	h.deps.Metrics.ReportsSubmittedTotal.Inc()

	submittedAt := time.Now().UTC()
	if rec.SubmittedAt != nil {
		submittedAt = *rec.SubmittedAt
	}
	respondWithSuccess(w, http.StatusOK, &dtos.SubmitResponse{
		ID:          rec.ID,
		Status:      rec.Status,
		SubmittedAt: submittedAt,
	})
}

// DeleteReport handles DELETE /api/v1/reports/{id}
func (h *Handlers) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var date string
	if row, err := h.deps.Repo.Reader.GetByID(r.Context(), id); err == nil {
		date = row.ReportDate
	}

	err := h.deps.Repo.Reports.Delete(r.Context(), id)
	if errors.Is(err, repositories.ErrReportNotFound) {
		respondWithError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		logging.Error("report delete failed", "report_id", id, "error", err.Error())
		respondWithError(w, http.StatusInternalServerError, "failed to delete report")
		return
	}

	if date != "" {
		h.deps.Services.Cache.Delete(cacheKeyForDate(date))
	}
	type ack struct {
		Deleted bool `json:"deleted"`
	}
	respondWithSuccess(w, http.StatusOK, &ack{Deleted: true})
}

// draftFromRow decodes a stored payload into the draft shape served to
// clients, falling back to the indexed columns when a legacy row has no
// payload document.
func draftFromRow(row *entities.ReportRow) (*dtos.ReportDraft, error) {
	if len(row.Payload) == 0 {
		d := dtos.NewBlankDraft(row.ReportDate)
		d.ReportID = row.ID
		d.ProjectName = row.ProjectName
		return d, nil
	}
	var draft dtos.ReportDraft
	if err := json.Unmarshal(row.Payload, &draft); err != nil {
		return nil, err
	}
	draft.ReportID = row.ID
	return &draft, nil
}

func decodeCachedDraft(cached interface{}) (*dtos.ReportDraft, bool) {
	s, ok := cached.(string)
	if !ok {
		return nil, false
	}
	var draft dtos.ReportDraft
	if err := json.Unmarshal([]byte(s), &draft); err != nil {
		return nil, false
	}
	return &draft, true
}
