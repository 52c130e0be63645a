package platform

import (
	"errors"
	"runtime"
	"testing"
)

func TestCurrentMatchesRuntime(t *testing.T) {
	expected := map[string]Platform{
		"linux/amd64":   LinuxX64,
		"linux/arm64":   LinuxArm64,
		"linux/arm":     LinuxArmhf,
		"darwin/amd64":  DarwinX64,
		"darwin/arm64":  DarwinArm64,
		"windows/amd64": Win32X64,
	}

	p, err := Current()
	want, supported := expected[runtime.GOOS+"/"+runtime.GOARCH]
	if !supported {
		if err == nil {
			t.Fatalf("Current() = %v, want error on %s/%s", p, runtime.GOOS, runtime.GOARCH)
		}
		var unsupported *UnsupportedError
		if !errors.As(err, &unsupported) {
			t.Fatalf("Current() error = %v, want *UnsupportedError", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("Current() error: %v", err)
	}
	if p != want {
		t.Errorf("Current() = %v, want %v", p, want)
	}
}

func TestDerivedConventions(t *testing.T) {
	tests := []struct {
		platform Platform
		flavor   string
		suffix   string
		format   ArchiveFormat
	}{
		{LinuxX64, "server-linux-x64", "stable", FormatTarGz},
		{LinuxArm64, "server-linux-arm64", "stable", FormatTarGz},
		{LinuxArmhf, "server-linux-armhf", "stable", FormatTarGz},
		{DarwinX64, "server-darwin-x64", "stable", FormatTarGz},
		{DarwinArm64, "server-darwin-arm64", "stable", FormatTarGz},
		{Win32X64, "server-win32-x64", "archive", FormatZip},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			if got := tt.platform.Flavor(); got != tt.flavor {
				t.Errorf("Flavor() = %q, want %q", got, tt.flavor)
			}
			if got := tt.platform.URLSuffix(); got != tt.suffix {
				t.Errorf("URLSuffix() = %q, want %q", got, tt.suffix)
			}
			if got := tt.platform.ArchiveFormat(); got != tt.format {
				t.Errorf("ArchiveFormat() = %q, want %q", got, tt.format)
			}
		})
	}
}

func TestFromTargetTriple(t *testing.T) {
	tests := []struct {
		triple string
		want   Platform
	}{
		{"x86_64-unknown-linux-gnu", LinuxX64},
		{"x86_64-unknown-linux-musl", LinuxX64},
		{"aarch64-unknown-linux-gnu", LinuxArm64},
		{"aarch64-unknown-linux-musl", LinuxArm64},
		{"armv7-unknown-linux-gnueabihf", LinuxArmhf},
		{"x86_64-apple-darwin", DarwinX64},
		{"aarch64-apple-darwin", DarwinArm64},
		{"x86_64-pc-windows-msvc", Win32X64},
		{"x86_64-pc-windows-gnu", Win32X64},
	}

	for _, tt := range tests {
		got, err := FromTargetTriple(tt.triple)
		if err != nil {
			t.Errorf("FromTargetTriple(%q) error: %v", tt.triple, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FromTargetTriple(%q) = %v, want %v", tt.triple, got, tt.want)
		}
	}

	if _, err := FromTargetTriple("riscv64gc-unknown-linux-gnu"); err == nil {
		t.Error("FromTargetTriple should fail for unknown triples")
	}
}

func TestExecutableRelPath(t *testing.T) {
	if got := LinuxX64.ExecutableRelPath(); got == "" || got == Win32X64.ExecutableRelPath() {
		t.Errorf("unexpected executable paths: linux=%q win32=%q", got, Win32X64.ExecutableRelPath())
	}
}
