package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ferrors "fiddle/cli/internal/errors"

	"go.uber.org/zap"
)

// Endpoints contains the REST endpoint paths of the query service.
type Endpoints struct {
	Execute string // e.g. "/api/main"
	Version string // e.g. "/api/version"
}

// DefaultEndpoints returns the paths served by the hosted fiddle.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Execute: "/api/main",
		Version: "/api/version",
	}
}

// HTTP implements API over the query service's REST endpoints.
// It issues exactly one request per call: no retries, and no client-side timeout
// beyond what the caller's context imposes.
type HTTP struct {
	// baseURL is the base URL for all HTTP requests (e.g., "https://fiddle.example.com")
	baseURL string
	// endpoints contains the URL paths for the API endpoints
	endpoints Endpoints
	// client is the underlying HTTP client
	client *http.Client
	// token is sent as a bearer token when non-empty
	token string
	log   *zap.Logger
}

// Option configures an HTTP client.
type Option func(*HTTP)

// WithToken sends "Authorization: Bearer <token>" with every request.
func WithToken(token string) Option {
	return func(h *HTTP) { h.token = strings.TrimSpace(token) }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTP) { h.client = c }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *HTTP) { h.log = l }
}

// newHTTP creates a new HTTP client with the given base URL and endpoints.
func newHTTP(baseURL string, endpoints Endpoints, opts ...Option) *HTTP {
	h := &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: endpoints,
		client:    &http.Client{},
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// setStandardHeaders sets headers shared by every request.
func (h *HTTP) setStandardHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "fiddle-cli/1.0")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
}

// Execute calls POST <execute path> with the request as JSON and maps the response:
// 200 decodes into a Result, 400 with a "message" field becomes a validation error
// carrying that message verbatim, anything else is an unexpected error with the
// status code and raw body.
func (h *HTTP) Execute(ctx context.Context, r Request) (*Result, error) {
	if r.Stmts == nil {
		r.Stmts = []string{}
	}
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+h.endpoints.Execute, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	h.setStandardHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.Network, "request to query service failed", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.Network, "reading query service response failed", err)
	}
	h.log.Debug("execute response",
		zap.Int("statements", len(r.Stmts)),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(b)),
		zap.Duration("elapsed", time.Since(start)),
	)

	switch resp.StatusCode {
	case http.StatusOK:
		var out Result
		if err := json.Unmarshal(b, &out); err != nil {
			return nil, &ferrors.E{
				Kind:    ferrors.Unexpected,
				Status:  resp.StatusCode,
				Message: fmt.Sprintf("malformed response body: %v", err),
				Err:     err,
			}
		}
		return &out, nil
	case http.StatusBadRequest:
		var v validationBody
		if err := json.Unmarshal(b, &v); err == nil && v.Message != nil {
			return nil, ferrors.NewValidation(*v.Message)
		}
	}
	return nil, ferrors.NewUnexpected(resp.StatusCode, strings.TrimSpace(string(b)))
}

// GetVersion calls GET <version path> and returns the version string when available.
// No authentication required. This can be used to check connectivity to the backend service.
func (h *HTTP) GetVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+h.endpoints.Version, nil)
	if err != nil {
		return "", err
	}
	h.setStandardHeaders(req)
	resp, err := h.client.Do(req)
	if err != nil {
		return "", ferrors.Wrap(ferrors.Network, "request to query service failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "unknown", nil
	}
	var out struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Version == "" {
		return "unknown", nil
	}
	return out.Version, nil
}
