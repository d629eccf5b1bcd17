package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/reelsmith/dashboard-go/pkg/config"
	pkgerrors "github.com/reelsmith/dashboard-go/pkg/errors"
	"github.com/reelsmith/dashboard-go/pkg/logger"
	"github.com/reelsmith/dashboard-go/pkg/metrics"
)

var (
	errBaseURLRequired = errors.New("platform base url is required")
	errLoggerRequired  = errors.New("platform logger is required")
)

// TokenSource yields the current bearer token, or "" when no session exists.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function into a TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// APIError is the normalized failure shape for backend responses.
type APIError struct {
	Message    string
	Status     int
	StatusText string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// AsAPIError extracts the typed APIError from an error chain, or nil when
// the failure never reached the backend (transport, encoding).
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// Client exposes the video platform's REST resources with centralized auth,
// logging, and error mapping.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
	logger     *logger.Logger
	metrics    *metrics.UpstreamMetrics
}

// NewClient initializes the platform client and validates its configuration.
func NewClient(cfg config.PlatformConfig, tokens TokenSource, logg *logger.Logger, upstream *metrics.UpstreamMetrics) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errBaseURLRequired
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing platform base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logg,
		metrics:    upstream,
	}, nil
}

// BaseURL reports the configured backend base URL.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

type requestSpec struct {
	method      string
	endpoint    string
	resource    string
	body        io.Reader
	contentType string
	headers     http.Header
}

// do executes one request against the backend. Caller headers are applied
// first; the Authorization header is set last so it always wins.
func (c *Client) do(ctx context.Context, spec requestSpec, out any) error {
	target := c.baseURL.JoinPath(spec.endpoint)
	// JoinPath escapes nothing we pass, but endpoint may carry a query string.
	if idx := strings.IndexByte(spec.endpoint, '?'); idx >= 0 {
		target = c.baseURL.JoinPath(spec.endpoint[:idx])
		target.RawQuery = spec.endpoint[idx+1:]
	}

	req, err := http.NewRequestWithContext(ctx, spec.method, target.String(), spec.body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}

	for key, values := range spec.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if spec.contentType != "" {
		req.Header.Set("Content-Type", spec.contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveDuration(spec.method, spec.resource, time.Since(start))
	if err != nil {
		c.metrics.IncFailure(spec.method, spec.resource, "transport")
		c.log(ctx, "error", spec.resource, map[string]any{"method": spec.method, "error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "request failed")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncFailure(spec.method, spec.resource, "transport")
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := normalizeError(resp.StatusCode, resp.Status, payload)
		c.metrics.IncFailure(spec.method, spec.resource, fmt.Sprintf("%d", resp.StatusCode))
		c.log(ctx, "error", spec.resource, map[string]any{
			"method": spec.method,
			"status": resp.StatusCode,
			"error":  apiErr.Message,
		})
		return pkgerrors.Wrap(pkgerrors.FromStatus(resp.StatusCode), apiErr, apiErr.Message)
	}

	// Empty success bodies decode to the zero value rather than failing.
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}

	if err := json.Unmarshal(payload, out); err != nil {
		apiErr := &APIError{
			Message:    "invalid JSON response",
			Status:     resp.StatusCode,
			StatusText: statusText(resp.Status),
		}
		c.metrics.IncFailure(spec.method, spec.resource, "decode")
		return pkgerrors.Wrap(pkgerrors.CodeBadResponse, apiErr, apiErr.Message)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, resource string, out any) error {
	return c.do(ctx, requestSpec{method: http.MethodGet, endpoint: endpoint, resource: resource}, out)
}

func (c *Client) sendJSON(ctx context.Context, method, endpoint, resource string, payload, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return c.do(ctx, requestSpec{
		method:      method,
		endpoint:    endpoint,
		resource:    resource,
		body:        body,
		contentType: contentType,
	}, out)
}

func (c *Client) deleteJSON(ctx context.Context, endpoint, resource string) error {
	return c.do(ctx, requestSpec{method: http.MethodDelete, endpoint: endpoint, resource: resource}, nil)
}

// normalizeError extracts a human-readable message from an error body,
// preferring the backend's detail/message fields.
func normalizeError(statusCode int, status string, payload []byte) *APIError {
	text := statusText(status)
	message := fmt.Sprintf("HTTP %d: %s", statusCode, text)

	var parsed struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &parsed); err == nil {
		if parsed.Detail != "" {
			message = parsed.Detail
		} else if parsed.Message != "" {
			message = parsed.Message
		}
	}

	return &APIError{
		Message:    message,
		Status:     statusCode,
		StatusText: text,
	}
}

// statusText strips the numeric prefix from an http status line ("404 Not
// Found" becomes "Not Found").
func statusText(status string) string {
	if idx := strings.IndexByte(status, ' '); idx >= 0 {
		return status[idx+1:]
	}
	return status
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Warn(ctx, fmt.Sprintf("platform %s failed", op))
	default:
		c.logger.Debug(ctx, fmt.Sprintf("platform %s", phase))
	}
}

func redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"token", "password", "secret", "authorization"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}
