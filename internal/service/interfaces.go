// Package service implements version detection, artifact download, and
// process lifecycle management for the VS Code server.
package service

import (
	"context"

	"vscodeops/internal/domain"
)

// ProgressFunc receives download progress. total is the declared content
// length and may be <= 0 when the server does not report one.
type ProgressFunc func(done, total int64)

// VersionResolver resolves the latest compatible server build.
type VersionResolver interface {
	Detect(ctx context.Context) (*domain.ServerInfo, error)
}

// ArchiveFetcher downloads a server archive and unpacks it into a
// commit-keyed directory under targetDir.
type ArchiveFetcher interface {
	Fetch(ctx context.Context, info *domain.ServerInfo, targetDir string, onProgress ProgressFunc) error
}

// ServerManager defines lifecycle operations over the managed server process.
type ServerManager interface {
	Ensure(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Status(ctx context.Context) (*domain.ServerStatus, error)
	IsRunning() bool
	URL() string
	Info() *domain.ServerInfo
}
