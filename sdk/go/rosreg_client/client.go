// Package rosreg_client is a Go client for the rosreg HTTP API. It speaks
// the APIResponse envelope, decodes typed payloads, and surfaces failed
// calls as *APIError values carrying the machine-readable error code.
package rosreg_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyResponse = errors.New("empty response body")
	ErrDecode        = errors.New("failed to decode response")
)

// Error codes returned by the API, for matching against APIError.Code.
const (
	CodeInvalidRequest     = "invalid_request"
	CodeValidation         = "validation_failed"
	CodeRatingOutOfRange   = "rating_out_of_range"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeDuplicateMapping   = "duplicate_mapping"
	CodeExportToken        = "export_token_invalid"
	CodeRateLimited        = "rate_limit_exceeded"
	CodeServiceUnavailable = "service_unavailable"
	CodeInternal           = "internal_error"
)

// APIError is a failed API call. Code carries the machine-readable error
// code from the response envelope.
type APIError struct {
	StatusCode  int
	Code        string
	Message     string
	Description string
	TraceID     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("rosreg: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

// IsNotFound reports whether err is an API not-found error.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeNotFound
}

// IsConflict reports whether err is an API conflict, including duplicate
// mappings.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && (apiErr.Code == CodeConflict || apiErr.Code == CodeDuplicateMapping)
}

// Client calls the rosreg HTTP API.
type Client struct {
	baseURL    string
	actor      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithActor sets the identity sent in the X-Actor header and recorded in
// the service audit trail.
func WithActor(actor string) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient returns a client for the API served at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope mirrors the APIResponse wrapper. Data stays raw until the
// caller's type is known.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *envelopeError  `json:"error"`
	TraceID string          `json:"trace_id"`
}

type envelopeError struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// do sends one API request and decodes the envelope. A nil out discards
// the data payload.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.actor != "" {
		req.Header.Set("X-Actor", c.actor)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("%w: http %d", ErrEmptyResponse, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: http %d: %v", ErrDecode, resp.StatusCode, err)
	}

	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode, TraceID: env.TraceID}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Description = env.Error.Description
		} else {
			apiErr.Code = CodeInternal
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
	}
	return nil
}

// Health reports service readiness. A not-ready service is not an error;
// callers inspect Status and Checks.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &status, nil
}

// CreateProject creates an assessment project.
func (c *Client) CreateProject(ctx context.Context, req *CreateProjectRequest) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodPost, "/api/v1/projects", nil, req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateRisk creates a risk record. The response carries the derived
// score and level for the submitted assessments.
func (c *Client) CreateRisk(ctx context.Context, req *CreateRiskRequest) (*Risk, error) {
	var risk Risk
	if err := c.do(ctx, http.MethodPost, "/api/v1/risks", nil, req, &risk); err != nil {
		return nil, err
	}
	return &risk, nil
}

// GetRisk fetches one risk by id.
func (c *Client) GetRisk(ctx context.Context, id string) (*Risk, error) {
	var risk Risk
	if err := c.do(ctx, http.MethodGet, "/api/v1/risks/"+url.PathEscape(id), nil, nil, &risk); err != nil {
		return nil, err
	}
	return &risk, nil
}

// ListRisks fetches a page of the register. A nil query lists live risks
// with default paging.
func (c *Client) ListRisks(ctx context.Context, q *ListRisksQuery) (*RiskList, error) {
	values := url.Values{}
	if q != nil {
		setIfPresent(values, "project_id", q.ProjectID)
		setIfPresent(values, "asset_id", q.AssetID)
		setIfPresent(values, "status", q.Status)
		setIfPresent(values, "type", q.Type)
		setIfPresent(values, "level", q.Level)
		if q.IncludeClosed {
			values.Set("include_closed", "true")
		}
		if q.Page > 0 {
			values.Set("page", strconv.Itoa(q.Page))
		}
		if q.PageSize > 0 {
			values.Set("page_size", strconv.Itoa(q.PageSize))
		}
	}
	var list RiskList
	if err := c.do(ctx, http.MethodGet, "/api/v1/risks", values, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ReassessRisk records a fresh current assessment and stamps the review
// date.
func (c *Client) ReassessRisk(ctx context.Context, id string, current Assessment) (*Risk, error) {
	body := struct {
		Current Assessment `json:"current"`
	}{Current: current}
	var risk Risk
	if err := c.do(ctx, http.MethodPost, "/api/v1/risks/"+url.PathEscape(id)+"/reassess", nil, body, &risk); err != nil {
		return nil, err
	}
	return &risk, nil
}

// SetRiskTarget records the planned target assessment.
func (c *Client) SetRiskTarget(ctx context.Context, id string, target Assessment) (*Risk, error) {
	body := struct {
		Target Assessment `json:"target"`
	}{Target: target}
	var risk Risk
	if err := c.do(ctx, http.MethodPut, "/api/v1/risks/"+url.PathEscape(id)+"/target", nil, body, &risk); err != nil {
		return nil, err
	}
	return &risk, nil
}

// CloseRisk retires a risk. Closed risks drop out of the live register,
// the matrix and the coverage counts.
func (c *Client) CloseRisk(ctx context.Context, id string) (*Risk, error) {
	var risk Risk
	if err := c.do(ctx, http.MethodPost, "/api/v1/risks/"+url.PathEscape(id)+"/close", nil, nil, &risk); err != nil {
		return nil, err
	}
	return &risk, nil
}

// CreateAction creates a remediation action for a risk.
func (c *Client) CreateAction(ctx context.Context, req *CreateActionRequest) (*Action, error) {
	var action Action
	if err := c.do(ctx, http.MethodPost, "/api/v1/actions", nil, req, &action); err != nil {
		return nil, err
	}
	return &action, nil
}

// SetActionStatus moves an action through its workflow. Status is one of
// open, in_progress or done.
func (c *Client) SetActionStatus(ctx context.Context, id, status string) (*Action, error) {
	body := struct {
		Status string `json:"status"`
	}{Status: status}
	var action Action
	if err := c.do(ctx, http.MethodPost, "/api/v1/actions/"+url.PathEscape(id)+"/status", nil, body, &action); err != nil {
		return nil, err
	}
	return &action, nil
}

// DashboardSummary fetches the dashboard headline view.
func (c *Client) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	var summary DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/api/v1/dashboard/summary", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Matrix fetches the rendered 5x5 matrix. View is "current" or "target";
// empty defaults to current.
func (c *Client) Matrix(ctx context.Context, view string) (*Matrix, error) {
	values := url.Values{}
	setIfPresent(values, "view", view)
	var matrix Matrix
	if err := c.do(ctx, http.MethodGet, "/api/v1/dashboard/matrix", values, nil, &matrix); err != nil {
		return nil, err
	}
	return &matrix, nil
}

// Alerts fetches the active alerts with per-severity counts.
func (c *Client) Alerts(ctx context.Context) (*AlertList, error) {
	var alerts AlertList
	if err := c.do(ctx, http.MethodGet, "/api/v1/dashboard/alerts", nil, nil, &alerts); err != nil {
		return nil, err
	}
	return &alerts, nil
}

// Coverage fetches the gap-analysis result for one framework.
func (c *Client) Coverage(ctx context.Context, framework string) (*Coverage, error) {
	values := url.Values{}
	setIfPresent(values, "framework", framework)
	var coverage Coverage
	if err := c.do(ctx, http.MethodGet, "/api/v1/compliance/coverage", values, nil, &coverage); err != nil {
		return nil, err
	}
	return &coverage, nil
}

// MapRisk links a catalog entry to a risk.
func (c *Client) MapRisk(ctx context.Context, req *MapRiskRequest) (*RiskMapping, error) {
	var mapping RiskMapping
	if err := c.do(ctx, http.MethodPost, "/api/v1/compliance/mappings/risk", nil, req, &mapping); err != nil {
		return nil, err
	}
	return &mapping, nil
}

// RegisterExport renders an export and returns its download ticket.
func (c *Client) RegisterExport(ctx context.Context, req *ExportRequest) (*ExportTicket, error) {
	var ticket ExportTicket
	if err := c.do(ctx, http.MethodPost, "/api/v1/export/register", nil, req, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// DownloadExport fetches a rendered export by its ticket token. The
// download endpoint streams the document directly, without the envelope.
func (c *Client) DownloadExport(ctx context.Context, token string) (*ExportDocument, error) {
	u := c.baseURL + "/api/v1/export/download?" + url.Values{"token": {token}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if c.actor != "" {
		req.Header.Set("X-Actor", c.actor)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Failures come back enveloped.
		var env envelope
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: CodeInternal, Message: http.StatusText(resp.StatusCode)}
		if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Description = env.Error.Description
			apiErr.TraceID = env.TraceID
		}
		return nil, apiErr
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}

	doc := &ExportDocument{
		Content:     content,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			doc.Filename = params["filename"]
		}
	}
	return doc, nil
}

func setIfPresent(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}
