// Package api is the HTTP transport for the Deepself API: bearer auth, JSON
// bodies, envelope normalization and error classification.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deepself/deepself-cli/internal/clierr"
	"github.com/deepself/deepself-cli/internal/version"
)

const (
	// DefaultBaseURL is used when neither the environment nor the config file sets one
	DefaultBaseURL = "https://api.deepself.me"

	// DefaultTimeout bounds every request
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize caps how much of a response body is read
	MaxResponseSize = 10 * 1024 * 1024
)

// Client performs single, independent API requests. It never retries.
type Client struct {
	baseURL   string
	apiKey    string
	http      *http.Client
	logger    *slog.Logger
	userAgent string
	requestID func() string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client. An empty apiKey sends no Authorization header and an
// empty baseURL selects DefaultBaseURL.
func New(apiKey, baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		http:      &http.Client{Timeout: DefaultTimeout},
		logger:    slog.Default(),
		userAgent: version.UserAgent(),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the effective base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET request
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with an optional JSON body
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH request with a JSON body
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE request
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do performs one request. On success the normalized payload is decoded into
// out (when out is non-nil); on failure a *clierr.Error is returned.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return clierr.Network(err)
	}

	requestID := c.requestID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			"method", method, "path", path, "request_id", requestID,
			"duration", time.Since(start), "error", err)
		return clierr.Network(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return clierr.Network(err)
	}

	c.logger.Debug("request complete",
		"method", method, "path", path, "request_id", requestID,
		"status", resp.StatusCode, "duration", time.Since(start), "bytes", len(data))

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp.StatusCode, data)
	}

	payload, err := Normalize(resp.StatusCode, data)
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return clierr.API(fmt.Sprintf("failed to decode response: %v", err), resp.StatusCode, "")
	}
	return nil
}
