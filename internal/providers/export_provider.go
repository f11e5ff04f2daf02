package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/gonyrida/sitedaily/internal/constants"
	"github.com/gonyrida/sitedaily/internal/models/dtos"
)

// DefaultExportTimeout bounds document-generation calls, which can take
// minutes for photo-heavy reports.
const DefaultExportTimeout = 300 * time.Second

// ExportMode selects which document the generation service renders.
type ExportMode string

const (
	ExportModeReport    ExportMode = "report"
	ExportModeReference ExportMode = "reference"
	ExportModeCombined  ExportMode = "combined"
)

// ExportResult is the binary document returned by the generation
// service.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DocumentExporter is the session's view of the document-generation
// service.
type DocumentExporter interface {
	Export(ctx context.Context, draft *dtos.ReportDraft, mode ExportMode) (*ExportResult, error)
}

// ExportProvider is the HTTP client for the companion document
// generation service. Rendering is entirely the service's concern; this
// client only ships an assembled, image-inlined payload and hands back
// the file.
type ExportProvider struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

var _ DocumentExporter = (*ExportProvider)(nil)

// NewExportProvider creates a document export client with the long
// generation timeout.
func NewExportProvider(baseURL, token string) *ExportProvider {
	return &ExportProvider{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout: DefaultExportTimeout,
		},
	}
}

// Export sends the report payload and mode selector, returning the
// generated file. Failures carry the service's JSON error body.
func (p *ExportProvider) Export(ctx context.Context, draft *dtos.ReportDraft, mode ExportMode) (*ExportResult, error) {
	payload := struct {
		Mode   ExportMode        `json:"mode"`
		Report *dtos.ReportDraft `json:"report"`
	}{Mode: mode, Report: draft}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidPayload,
			Message: "failed to marshal export payload",
			Err:     err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/api/v1/export", bytes.NewReader(body))
	if err != nil {
		return nil, networkError("failed to create export request", err)
	}
	if p.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.Token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, networkError(constants.GetErrorMessage(constants.ErrCodeNetworkError), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError("failed to read export response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var exportErr dtos.ExportError
		if json.Unmarshal(data, &exportErr) == nil && exportErr.Error != "" {
			return nil, &ProviderError{
				Code:    constants.ErrCodeExportFailed,
				Message: exportErr.Error,
				Details: exportErr.Details,
			}
		}
		return nil, &ProviderError{
			Code:    constants.ErrCodeExportFailed,
			Message: fmt.Sprintf("HTTP %d from export service", resp.StatusCode),
			Details: string(data),
		}
	}

	return &ExportResult{
		Filename:    filenameFromHeader(resp.Header.Get("Content-Disposition"), draft, mode),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func filenameFromHeader(disposition string, draft *dtos.ReportDraft, mode ExportMode) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	return fmt.Sprintf("daily-report-%s-%s.pdf", draft.ReportDate, mode)
}
