package dtos

import "time"

// APIResponse is the generic envelope every report-service endpoint
// responds with.
type APIResponse[T any] struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Data      *T        `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// SaveReportResponse carries the server-assigned identifier back to the
// client after a create/upsert.
type SaveReportResponse struct {
	ID string `json:"id"`
}

// AutoSaveResponse acknowledges a partial update.
type AutoSaveResponse struct {
	Success bool      `json:"success"`
	SavedAt time.Time `json:"savedAt"`
}

// SubmitResponse acknowledges a status transition to submitted.
type SubmitResponse struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// SubmitRequest identifies the report to submit by its join key.
type SubmitRequest struct {
	ProjectName string `json:"projectName"`
	ReportDate  string `json:"reportDate"`
}

// ExportError is the JSON error body returned by the document-generation
// service on failure.
type ExportError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
