package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"vscodeops/internal/platform"
)

func TestServiceErrorUnwrap(t *testing.T) {
	err := NewServiceError("server", "start", ErrServerNotFound)
	if !errors.Is(err, ErrServerNotFound) {
		t.Error("ServiceError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "server.start") {
		t.Errorf("ServiceError message missing context: %q", err.Error())
	}
}

func TestAPIErrorRetryable(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{500, true},
		{503, true},
		{429, true},
		{404, false},
		{400, false},
	}
	for _, tt := range tests {
		err := &APIError{URL: "http://example.com", StatusCode: tt.status, Message: "request failed"}
		if err.IsRetryable() != tt.retryable {
			t.Errorf("IsRetryable() for status %d = %v, want %v", tt.status, err.IsRetryable(), tt.retryable)
		}
	}
}

func TestStatusSnapshotJSON(t *testing.T) {
	snap := StatusSnapshot{
		ServerURL:        "http://127.0.0.1:8001",
		MonacoAPIVersion: "v2.3.0",
		VSCodeCommit:     "deadbeef",
		Platform:         platform.LinuxX64.Flavor(),
		ServiceConfig: ServiceEndpoint{
			BaseURL:         "http://127.0.0.1:8001",
			ConnectionToken: "secret",
		},
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	for _, key := range []string{"serverUrl", "monacoApiVersion", "vscodeCommit", "serviceConfig", "baseUrl", "connectionToken"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("snapshot JSON missing %q: %s", key, data)
		}
	}
}
