package service

import (
	"context"
	"sync"
	"time"

	"vscodeops/internal/domain"
)

// HostOptions controls the lifecycle policy a Host applies to its manager.
type HostOptions struct {
	// AutoStart starts the server right after Initialize ensures it.
	AutoStart bool
	// StopOnExit terminates the server when the Host is closed.
	StopOnExit bool
}

// DefaultHostOptions returns the policy embedding applications usually want
func DefaultHostOptions() HostOptions {
	return HostOptions{AutoStart: true, StopOnExit: true}
}

// Host wraps a Manager behind a shared lock so multiple command handlers in
// an embedding application can drive the same server instance concurrently.
type Host struct {
	mu      sync.Mutex
	manager *Manager
	opts    HostOptions
}

// NewHost creates a host facade around a manager
func NewHost(manager *Manager, opts HostOptions) *Host {
	return &Host{manager: manager, opts: opts}
}

// Initialize ensures the server is present and, when the auto-start policy
// is set, starts it. Returns the resolved server info.
func (h *Host) Initialize(ctx context.Context) (*domain.ServerInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.manager.Ensure(ctx); err != nil {
		return nil, err
	}
	if h.opts.AutoStart {
		if err := h.manager.Start(ctx); err != nil {
			return nil, err
		}
	}

	info := h.manager.Info()
	if info == nil {
		return nil, domain.ErrServerNotFound
	}
	return info, nil
}

// URL returns the configured server address
func (h *Host) URL() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.manager.URL()
}

// Stop shuts the server down
func (h *Host) Stop(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.manager.Stop(ctx)
}

// Restart stops the server, waits briefly, and starts it again. The sequence
// is not atomic: a failed start leaves the server down.
func (h *Host) Restart(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.manager.Stop(ctx); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(500 * time.Millisecond):
	}
	return h.manager.Start(ctx)
}

// Snapshot assembles the serializable status view for a dependent
// application. Fails with ErrServerNotFound before Initialize has resolved a
// version.
func (h *Host) Snapshot() (*domain.StatusSnapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	info := h.manager.Info()
	if info == nil {
		return nil, domain.ErrServerNotFound
	}

	url := h.manager.URL()
	return &domain.StatusSnapshot{
		ServerURL:        url,
		MonacoAPIVersion: info.MonacoAPIVersion,
		VSCodeCommit:     info.VSCodeCommit,
		Platform:         info.Platform.Flavor(),
		ServiceConfig: domain.ServiceEndpoint{
			BaseURL:         url,
			ConnectionToken: h.manager.cfg.Server.ConnectionToken,
		},
	}, nil
}

// Close applies the stop-on-exit policy. Best-effort, never blocks.
func (h *Host) Close() {
	if h.opts.StopOnExit {
		h.manager.Close()
	}
}
