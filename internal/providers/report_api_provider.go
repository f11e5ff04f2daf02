package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gonyrida/sitedaily/internal/constants"
	"github.com/gonyrida/sitedaily/internal/models/dtos"
	"github.com/gonyrida/sitedaily/internal/normalize"
)

// DefaultAPITimeout bounds ordinary report store calls.
const DefaultAPITimeout = 10 * time.Second

// ReportStore is the contract the editing session depends on. The REST
// implementation below is the production one; tests substitute mocks.
type ReportStore interface {
	LoadByDate(ctx context.Context, date string) (*dtos.ReportDraft, error)
	LoadByID(ctx context.Context, id string) (*dtos.ReportDraft, error)
	Save(ctx context.Context, draft *dtos.ReportDraft) (string, error)
	Submit(ctx context.Context, projectName, date string) (*dtos.SubmitResponse, error)
	AutoSave(ctx context.Context, id string, patch *dtos.ReportPatch) (*dtos.AutoSaveResponse, error)
	Delete(ctx context.Context, id string) error
}

// ReportAPIProvider is the REST client for the report persistence
// service.
type ReportAPIProvider struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

var _ ReportStore = (*ReportAPIProvider)(nil)

// NewReportAPIProvider creates a report store client with the standard
// short timeout for interactive calls.
func NewReportAPIProvider(baseURL, token string) *ReportAPIProvider {
	return &ReportAPIProvider{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout: DefaultAPITimeout,
		},
	}
}

// LoadByDate fetches the report for a calendar date. A 404 is returned
// as ErrNotFound, which callers treat as a normal miss.
func (p *ReportAPIProvider) LoadByDate(ctx context.Context, date string) (*dtos.ReportDraft, error) {
	if _, err := dtos.ParseReportDate(date); err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidPayload,
			Message: err.Error(),
		}
	}
	var raw dtos.RawReportDraft
	if err := p.doGET(ctx, "/api/v1/reports/by-date/"+date, &raw); err != nil {
		return nil, err
	}
	return normalize.Draft(&raw), nil
}

// LoadByID fetches a report by its server-assigned identifier.
func (p *ReportAPIProvider) LoadByID(ctx context.Context, id string) (*dtos.ReportDraft, error) {
	if id == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidPayload,
			Message: "report id cannot be empty",
		}
	}
	var raw dtos.RawReportDraft
	if err := p.doGET(ctx, "/api/v1/reports/"+id, &raw); err != nil {
		return nil, err
	}
	return normalize.Draft(&raw), nil
}

// Save creates or upserts a report and returns its id.
func (p *ReportAPIProvider) Save(ctx context.Context, draft *dtos.ReportDraft) (string, error) {
	var resp dtos.SaveReportResponse
	if err := p.doPost(ctx, "/api/v1/reports", draft, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Submit transitions the stored report for (projectName, date) to the
// submitted status.
func (p *ReportAPIProvider) Submit(ctx context.Context, projectName, date string) (*dtos.SubmitResponse, error) {
	req := dtos.SubmitRequest{ProjectName: projectName, ReportDate: date}
	var resp dtos.SubmitResponse
	if err := p.doPost(ctx, "/api/v1/reports/submit", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AutoSave issues a partial update against an already-persisted report.
func (p *ReportAPIProvider) AutoSave(ctx context.Context, id string, patch *dtos.ReportPatch) (*dtos.AutoSaveResponse, error) {
	if id == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidPayload,
			Message: "autosave requires a report id",
		}
	}
	var resp dtos.AutoSaveResponse
	if err := p.doPost(ctx, "/api/v1/reports/"+id+"/autosave", patch, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes a report by id.
func (p *ReportAPIProvider) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, p.BaseURL+"/api/v1/reports/"+id, nil)
	if err != nil {
		return networkError("failed to create request", err)
	}
	p.setHeaders(req)

	resp, err := p.Client.Do(req)
	if err != nil {
		return networkError(constants.GetErrorMessage(constants.ErrCodeNetworkError), err)
	}
	defer resp.Body.Close()

	return p.handleHTTPError(resp, "/api/v1/reports/"+id)
}

// ============================================================================
// HTTP helpers
// ============================================================================

func (p *ReportAPIProvider) doGET(ctx context.Context, endpoint string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+endpoint, nil)
	if err != nil {
		return networkError("failed to create request", err)
	}
	p.setHeaders(req)

	resp, err := p.Client.Do(req)
	if err != nil {
		return networkError(constants.GetErrorMessage(constants.ErrCodeNetworkError), err)
	}
	defer resp.Body.Close()

	if err := p.handleHTTPError(resp, endpoint); err != nil {
		return err
	}
	return p.decodeEnvelope(resp.Body, result)
}

func (p *ReportAPIProvider) doPost(ctx context.Context, endpoint string, payload interface{}, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeInvalidPayload,
			Message: "failed to marshal request body",
			Err:     err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return networkError("failed to create request", err)
	}
	p.setHeaders(req)

	resp, err := p.Client.Do(req)
	if err != nil {
		return networkError(constants.GetErrorMessage(constants.ErrCodeNetworkError), err)
	}
	defer resp.Body.Close()

	if err := p.handleHTTPError(resp, endpoint); err != nil {
		return err
	}
	return p.decodeEnvelope(resp.Body, result)
}

func (p *ReportAPIProvider) setHeaders(req *http.Request) {
	if p.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.Token)
	}
	req.Header.Set("Content-Type", "application/json")
}

// decodeEnvelope unpacks the service's APIResponse wrapper into result.
func (p *ReportAPIProvider) decodeEnvelope(r io.Reader, result interface{}) error {
	bodyBytes, err := io.ReadAll(r)
	if err != nil {
		return networkError("failed to read response body", err)
	}

	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "failed to decode response",
			Details: string(bodyBytes),
			Err:     err,
		}
	}
	if envelope.Status == "error" {
		return &ProviderError{
			Code:    constants.ErrCodePersistence,
			Message: envelope.Error,
		}
	}
	if result == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, result); err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "failed to decode response data",
			Details: string(envelope.Data),
			Err:     err,
		}
	}
	return nil
}

func (p *ReportAPIProvider) handleHTTPError(resp *http.Response, endpoint string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	bodyBytes, _ := io.ReadAll(resp.Body)
	return buildHTTPError(resp.StatusCode, endpoint, string(bodyBytes))
}

// buildHTTPError maps an HTTP status to the client error taxonomy. 404
// is the one non-error outcome.
func buildHTTPError(statusCode int, endpoint string, body string) error {
	switch statusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{
			Code:    constants.ErrCodeUnauthorized,
			Message: fmt.Sprintf("authentication failed for %s", endpoint),
			Details: body,
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: body,
		}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &ProviderError{
			Code:    constants.ErrCodeInvalidPayload,
			Message: fmt.Sprintf("bad request to %s", endpoint),
			Details: body,
		}
	default:
		return &ProviderError{
			Code:    constants.ErrCodePersistence,
			Message: fmt.Sprintf("HTTP %d from %s", statusCode, endpoint),
			Details: body,
		}
	}
}
