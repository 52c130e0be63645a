// Package util provides shared utilities for the vscodeops application.
//nolint:revive // util is a common package name for shared utilities
package util

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// userAgent identifies vscodeops to the GitHub API and the update service.
const userAgent = "vscode-server-backend"

// DefaultTimeout is the overall request timeout for downloads. Server
// archives are large; this bounds the whole transfer, not individual reads.
const DefaultTimeout = 5 * time.Minute

// HTTPClient wraps http.Client with common configuration and utilities
type HTTPClient struct {
	*http.Client
	logger *zap.Logger
}

// NewHTTPClient creates a new HTTP client with the specified timeout
func NewHTTPClient(timeout time.Duration, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		Client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Get issues a GET request with the standard User-Agent. Callers must close
// the response body; use CloseResponseBody for safe cleanup.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	return c.Client.Do(req)
}

// CloseResponseBody safely closes a response body, logging any errors
func (c *HTTPClient) CloseResponseBody(body io.Closer) {
	if body == nil {
		return
	}
	if err := body.Close(); err != nil {
		c.logger.Warn("Failed to close response body", zap.Error(err))
	}
}
