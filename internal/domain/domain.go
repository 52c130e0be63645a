// Package domain defines the core types and error values shared across vscodeops.
package domain

import (
	"errors"
	"fmt"
	"time"

	"vscodeops/internal/platform"
)

// ServerInfo describes a resolved VS Code server build. It is produced by
// version detection and immutable afterwards; one ServerInfo corresponds to
// exactly one install directory keyed by VSCodeCommit.
type ServerInfo struct {
	MonacoAPIVersion string            `json:"monaco_api_version"`
	VSCodeCommit     string            `json:"vscode_commit"`
	Platform         platform.Platform `json:"platform"`
	DownloadURL      string            `json:"download_url"`
}

// ServerStatus represents the current state of the managed server process
type ServerStatus struct {
	Running   bool      `json:"running"`
	PID       int       `json:"pid,omitempty"`
	URL       string    `json:"url"`
	Commit    string    `json:"commit,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// StatusSnapshot is the serializable view of a managed server handed to an
// embedding application's frontend.
type StatusSnapshot struct {
	ServerURL        string          `json:"serverUrl"`
	MonacoAPIVersion string          `json:"monacoApiVersion"`
	VSCodeCommit     string          `json:"vscodeCommit"`
	Platform         string          `json:"platform"`
	ServiceConfig    ServiceEndpoint `json:"serviceConfig"`
}

// ServiceEndpoint carries the connection details a dependent application
// needs to reach the server.
type ServiceEndpoint struct {
	BaseURL         string `json:"baseUrl"`
	ConnectionToken string `json:"connectionToken,omitempty"`
}

// Sentinel errors
var (
	ErrServerNotFound   = errors.New("server not found")
	ErrAlreadyRunning   = errors.New("server is already running")
	ErrNotRunning       = errors.New("server is not running")
	ErrVersionDetection = errors.New("version detection failed")
	ErrExtractionFailed = errors.New("extraction failed")
	ErrDownloadFailed   = errors.New("download failed")
)

// ServiceError represents a service-level error with context
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s.%s: %v", e.Service, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new service error
func NewServiceError(service, op string, err error) error {
	return &ServiceError{Service: service, Op: op, Err: err}
}

// APIError represents a remote API call error
type APIError struct {
	URL        string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d]: %s (url: %s)", e.StatusCode, e.Message, e.URL)
	}
	return fmt.Sprintf("API error: %s (url: %s)", e.Message, e.URL)
}

// IsRetryable returns true if retrying the request could succeed
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
