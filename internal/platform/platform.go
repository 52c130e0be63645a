// Package platform maps the running OS and architecture onto the closed set
// of VS Code server build targets and derives their download conventions.
package platform

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// Platform identifies a supported VS Code server build target.
type Platform string

// The full set of targets the update service publishes server builds for.
const (
	LinuxX64    Platform = "linux-x64"
	LinuxArm64  Platform = "linux-arm64"
	LinuxArmhf  Platform = "linux-armhf"
	DarwinX64   Platform = "darwin-x64"
	DarwinArm64 Platform = "darwin-arm64"
	Win32X64    Platform = "win32-x64"
)

// ArchiveFormat is the archive type a platform's server build ships as.
type ArchiveFormat string

const (
	FormatTarGz ArchiveFormat = "tar.gz"
	FormatZip   ArchiveFormat = "zip"
)

// UnsupportedError reports an OS/architecture combination outside the
// supported set.
type UnsupportedError struct {
	OS   string
	Arch string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported platform: %s %s", e.OS, e.Arch)
}

// Current detects the platform of the running process.
func Current() (Platform, error) {
	switch runtime.GOOS {
	case "linux":
		switch runtime.GOARCH {
		case "amd64":
			return LinuxX64, nil
		case "arm64":
			return LinuxArm64, nil
		case "arm":
			return LinuxArmhf, nil
		}
	case "darwin":
		switch runtime.GOARCH {
		case "amd64":
			return DarwinX64, nil
		case "arm64":
			return DarwinArm64, nil
		}
	case "windows":
		if runtime.GOARCH == "amd64" {
			return Win32X64, nil
		}
	}
	return "", &UnsupportedError{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// targetTriples maps known compiler target triples to platforms. Multiple
// libc variants of the same architecture collapse onto one platform.
var targetTriples = map[string]Platform{
	"x86_64-unknown-linux-gnu":      LinuxX64,
	"x86_64-unknown-linux-musl":     LinuxX64,
	"aarch64-unknown-linux-gnu":     LinuxArm64,
	"aarch64-unknown-linux-musl":    LinuxArm64,
	"armv7-unknown-linux-gnueabihf": LinuxArmhf,
	"x86_64-apple-darwin":           DarwinX64,
	"aarch64-apple-darwin":          DarwinArm64,
	"x86_64-pc-windows-msvc":        Win32X64,
	"x86_64-pc-windows-gnu":         Win32X64,
}

// FromTargetTriple resolves a platform from a target triple string. Used by
// packaging flows that build for a target other than the host.
func FromTargetTriple(triple string) (Platform, error) {
	if p, ok := targetTriples[triple]; ok {
		return p, nil
	}
	return "", fmt.Errorf("unsupported target: %s", triple)
}

// Flavor returns the build-variant token embedded in download URLs.
func (p Platform) Flavor() string {
	return "server-" + string(p)
}

// URLSuffix returns the release-channel segment of the download URL. The
// windows build is served from the "archive" channel, all others from
// "stable".
func (p Platform) URLSuffix() string {
	if p == Win32X64 {
		return "archive"
	}
	return "stable"
}

// ArchiveFormat returns the archive format the platform's build ships as.
// Only the windows build uses zip.
func (p Platform) ArchiveFormat() ArchiveFormat {
	if p == Win32X64 {
		return FormatZip
	}
	return FormatTarGz
}

// ExecutableRelPath returns the server entry point relative to an installed
// server directory.
func (p Platform) ExecutableRelPath() string {
	if p == Win32X64 {
		return filepath.Join("bin", "code-server.cmd")
	}
	return filepath.Join("bin", "code-server")
}

func (p Platform) String() string {
	return string(p)
}
