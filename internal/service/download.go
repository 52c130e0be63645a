package service

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"vscodeops/internal/domain"
	"vscodeops/internal/platform"
	"vscodeops/internal/util"
)

// Fetcher downloads server archives and unpacks them into commit-keyed
// install directories. A commit directory that already exists short-circuits
// the whole pipeline; its presence is the only idempotency signal, so a
// partially extracted directory from an earlier crash is trusted as valid.
type Fetcher struct {
	client *util.HTTPClient
	logger *zap.Logger
}

var _ ArchiveFetcher = (*Fetcher)(nil)

// NewFetcher creates a download and extraction pipeline
func NewFetcher(client *util.HTTPClient, logger *zap.Logger) *Fetcher {
	return &Fetcher{client: client, logger: logger}
}

// Fetch downloads the archive described by info and unpacks it into
// targetDir/<commit>. Returns immediately without network activity when that
// directory already exists. onProgress may be nil.
func (f *Fetcher) Fetch(ctx context.Context, info *domain.ServerInfo, targetDir string, onProgress ProgressFunc) error {
	if err := os.MkdirAll(targetDir, 0o750); err != nil {
		return err
	}

	serverDir := filepath.Join(targetDir, info.VSCodeCommit)
	if _, err := os.Stat(serverDir); err == nil {
		f.logger.Info("Server already installed", zap.String("path", serverDir))
		return nil
	}

	archivePath := filepath.Join(targetDir, archiveName(info))
	f.logger.Info("Downloading server",
		zap.String("version", info.MonacoAPIVersion),
		zap.String("commit", info.VSCodeCommit),
		zap.String("url", info.DownloadURL))

	if err := f.download(ctx, info.DownloadURL, archivePath, onProgress); err != nil {
		return err
	}

	f.logger.Info("Extracting server", zap.String("archive", archivePath))
	var err error
	switch info.Platform.ArchiveFormat() {
	case platform.FormatZip:
		err = f.extractZip(archivePath, serverDir)
	default:
		err = f.extractTarGz(archivePath, serverDir)
	}
	if err != nil {
		return err
	}

	if err := os.Remove(archivePath); err != nil {
		return err
	}

	f.logger.Info("Server ready", zap.String("path", serverDir))
	return nil
}

func archiveName(info *domain.ServerInfo) string {
	if info.Platform.ArchiveFormat() == platform.FormatZip {
		return fmt.Sprintf("vscode-server-%s.zip", info.VSCodeCommit)
	}
	return fmt.Sprintf("vscode-server-%s.tar.gz", info.VSCodeCommit)
}

// download streams the response body to destPath, reporting fractional
// progress when the content length is known.
func (f *Fetcher) download(ctx context.Context, url, destPath string, onProgress ProgressFunc) error {
	resp, err := f.client.Get(ctx, url)
	if err != nil {
		return err
	}
	defer f.client.CloseResponseBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d for %s", domain.ErrDownloadFailed, resp.StatusCode, url)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = file.Close()
	}()

	total := resp.ContentLength
	var done int64
	var lastReport time.Time

	buf := make([]byte, 64<<10)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := file.Write(buf[:n]); err != nil {
				return err
			}
			done += int64(n)

			if onProgress != nil && total > 0 {
				now := time.Now()
				if lastReport.IsZero() || now.Sub(lastReport) >= 200*time.Millisecond {
					lastReport = now
					onProgress(done, total)
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}
	}
	if onProgress != nil && total > 0 {
		onProgress(done, total)
	}

	return file.Close()
}

// extractTarGz unpacks the archive into a sibling temp directory, expects
// exactly one top-level directory inside, and renames that directory to
// serverDir. The temp directory is removed afterwards; failure to remove it
// is logged and not propagated.
func (f *Fetcher) extractTarGz(archivePath, serverDir string) error {
	tmpDir := serverDir + ".tmp"
	if err := os.MkdirAll(tmpDir, 0o750); err != nil {
		return err
	}

	if err := f.unpackTar(archivePath, tmpDir); err != nil {
		return err
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return err
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	if len(dirs) != 1 {
		return fmt.Errorf("%w: expected exactly one top-level directory in archive, found %d",
			domain.ErrExtractionFailed, len(dirs))
	}

	if err := os.Rename(filepath.Join(tmpDir, dirs[0]), serverDir); err != nil {
		return err
	}

	if err := os.RemoveAll(tmpDir); err != nil {
		f.logger.Warn("Failed to clean up temp directory", zap.String("path", tmpDir), zap.Error(err))
	}
	return nil
}

func (f *Fetcher) unpackTar(archivePath, dir string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer func() {
		_ = file.Close()
	}()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	defer func() {
		_ = gz.Close()
	}()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
		}

		target, err := securePath(dir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o750); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, hdr.FileInfo().Mode().Perm())
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil { //nolint:gosec // archive comes from the trusted update service
				_ = out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
		case tar.TypeSymlink:
			// Server tarballs carry relative symlinks under node_modules.
			if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
				return err
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil && !os.IsExist(err) {
				return err
			}
		}
	}
}

// extractZip unpacks the archive directly into serverDir
func (f *Fetcher) extractZip(archivePath, serverDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	defer func() {
		_ = reader.Close()
	}()

	if err := os.MkdirAll(serverDir, 0o750); err != nil {
		return err
	}

	for _, entry := range reader.File {
		target, err := securePath(serverDir, entry.Name)
		if err != nil {
			return err
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o750); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return err
		}
		src, err := entry.Open()
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, entry.Mode().Perm())
		if err != nil {
			_ = src.Close()
			return err
		}
		_, copyErr := io.Copy(out, src) //nolint:gosec // archive comes from the trusted update service
		_ = src.Close()
		if closeErr := out.Close(); copyErr == nil {
			copyErr = closeErr
		}
		if copyErr != nil {
			return copyErr
		}
	}
	return nil
}

// securePath joins an archive entry name onto base, rejecting entries that
// would escape it.
func securePath(base, name string) (string, error) {
	target := filepath.Join(base, filepath.FromSlash(name))
	if target != base && !strings.HasPrefix(target, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: archive entry %q escapes extraction directory", domain.ErrExtractionFailed, name)
	}
	return target, nil
}
