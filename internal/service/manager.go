package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"vscodeops/internal/config"
	"vscodeops/internal/domain"
)

// Manager owns the configuration, resolved server info, and the child
// process handle for a single VS Code server instance. At most one live
// child exists per manager; every process transition goes through the mutex.
type Manager struct {
	cfg      *config.Config
	logger   *zap.Logger
	resolver VersionResolver
	fetcher  ArchiveFetcher

	// Progress, when set before use, receives download progress from Ensure.
	Progress ProgressFunc

	mu         sync.Mutex
	proc       *exec.Cmd
	waitCh     chan error
	info       *domain.ServerInfo
	serverPath string
}

var _ ServerManager = (*Manager)(nil)

// NewManager creates a new server lifecycle manager
func NewManager(cfg *config.Config, logger *zap.Logger, resolver VersionResolver, fetcher ArchiveFetcher) *Manager {
	return &Manager{
		cfg:      cfg,
		logger:   logger,
		resolver: resolver,
		fetcher:  fetcher,
	}
}

// Ensure resolves the required server version and downloads it when the
// commit-keyed install directory is missing. Version detection runs on every
// call; the download only runs when the directory is absent.
func (m *Manager) Ensure(ctx context.Context) error {
	info, err := m.resolver.Detect(ctx)
	if err != nil {
		return err
	}

	serverPath := filepath.Join(m.cfg.Server.InstallDir, info.VSCodeCommit)
	if _, statErr := os.Stat(serverPath); statErr != nil {
		if err := m.fetcher.Fetch(ctx, info, m.cfg.Server.InstallDir, m.Progress); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.info = info
	m.serverPath = serverPath
	m.mu.Unlock()
	return nil
}

// Start spawns the server process. Fails with ErrAlreadyRunning when a
// handle already exists and ErrServerNotFound when Ensure has not run or the
// executable is missing. After spawning it pauses briefly so the child can
// begin initializing; this is not a readiness check against the socket.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.proc != nil {
		return domain.ErrAlreadyRunning
	}
	if m.serverPath == "" || m.info == nil {
		return domain.ErrServerNotFound
	}

	executable := filepath.Join(m.serverPath, m.info.Platform.ExecutableRelPath())
	if _, err := os.Stat(executable); err != nil {
		return domain.ErrServerNotFound
	}

	args := []string{
		"--port", strconv.Itoa(m.cfg.Server.Port),
		"--host", m.cfg.Server.Host,
	}
	if m.cfg.Server.DisableTelemetry {
		args = append(args, "--disable-telemetry")
	}
	if m.cfg.Server.ConnectionToken != "" {
		args = append(args, "--connection-token", m.cfg.Server.ConnectionToken)
	} else {
		args = append(args, "--without-connection-token")
	}
	args = append(args, m.cfg.Server.ExtraArgs...)

	cmd := exec.Command(executable, args...) //nolint:gosec // executable path is derived from config
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return domain.NewServiceError("server", "start", err)
	}

	waitCh := make(chan error, 1)
	go func() {
		waitCh <- cmd.Wait()
	}()

	m.proc = cmd
	m.waitCh = waitCh
	m.logger.Info("Server started",
		zap.Int("pid", cmd.Process.Pid),
		zap.String("url", m.url()))

	// Give the child a moment to begin initializing before returning.
	delay := time.Duration(m.cfg.Server.StartupDelay * float64(time.Second))
	if delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil
}

// Stop terminates the server process and waits for it to exit
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.proc == nil {
		return domain.ErrNotRunning
	}

	if err := m.proc.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return domain.NewServiceError("server", "stop", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-m.waitCh:
	}

	m.proc = nil
	m.waitCh = nil
	m.logger.Info("Server stopped")
	return nil
}

// IsRunning probes the child process without blocking. A handle whose
// process has already exited is cleared as a side effect.
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runningLocked()
}

// Status returns a point-in-time snapshot of the managed process
func (m *Manager) Status(_ context.Context) (*domain.ServerStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := &domain.ServerStatus{
		URL:       m.url(),
		CheckedAt: time.Now(),
	}
	if m.info != nil {
		status.Commit = m.info.VSCodeCommit
	}
	if m.runningLocked() {
		status.Running = true
		status.PID = m.proc.Process.Pid
	}
	return status, nil
}

// URL returns the address the server is configured to listen on. It does not
// imply the server is accepting connections.
func (m *Manager) URL() string {
	return m.url()
}

// Info returns the resolved server info, or nil before Ensure has run
func (m *Manager) Info() *domain.ServerInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.info
}

// Close makes a best-effort attempt to terminate a live child without
// waiting for exit confirmation. It never blocks: lock contention skips the
// cleanup entirely.
func (m *Manager) Close() {
	if !m.mu.TryLock() {
		return
	}
	defer m.mu.Unlock()

	if m.proc != nil {
		_ = m.proc.Process.Kill()
		m.proc = nil
		m.waitCh = nil
	}
}

func (m *Manager) url() string {
	return fmt.Sprintf("http://%s:%d", m.cfg.Server.Host, m.cfg.Server.Port)
}

// runningLocked is the liveness probe; callers must hold m.mu.
func (m *Manager) runningLocked() bool {
	if m.proc == nil {
		return false
	}
	select {
	case <-m.waitCh:
		m.proc = nil
		m.waitCh = nil
		return false
	default:
		return true
	}
}
