package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func fakeLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := DefaultConfig()
		if cfg.Server.Port != 8001 || cfg.Server.Host != "127.0.0.1" {
			t.Errorf("unexpected defaults: port=%d host=%q", cfg.Server.Port, cfg.Server.Host)
		}
		if !cfg.Server.DisableTelemetry {
			t.Error("telemetry should be disabled by default")
		}
		if cfg.Server.InstallDir == "" {
			t.Error("default install_dir should not be empty")
		}
		if len(cfg.Server.ExtraArgs) == 0 {
			t.Error("default extra_args should include the license flag")
		}
	})

	t.Run("LoadAndSave", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "config.toml")

		cfg := DefaultConfig()
		cfg.Server.Port = 9123
		cfg.Server.ConnectionToken = "tok"
		if err := cfg.SaveConfig(path); err != nil {
			t.Fatalf("SaveConfig failed: %v", err)
		}

		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if loaded.Server.Port != 9123 || loaded.Server.ConnectionToken != "tok" {
			t.Errorf("round trip mismatch: %+v", loaded.Server)
		}
	})

	t.Run("ValidateRejectsBadValues", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Server.Port = 0
		if err := cfg.Validate(); err == nil {
			t.Error("Validate should reject port 0")
		}

		cfg = DefaultConfig()
		cfg.Logging.Level = "LOUD"
		if err := cfg.Validate(); err == nil {
			t.Error("Validate should reject unknown log level")
		}

		cfg = DefaultConfig()
		cfg.Server.Host = ""
		if err := cfg.Validate(); err == nil {
			t.Error("Validate should reject empty host")
		}
	})
}

func TestResolveInstallDir(t *testing.T) {
	t.Run("EnvOverrideWins", func(t *testing.T) {
		dir := ResolveInstallDir(fakeLookup(map[string]string{"VSCODE_SERVER_DIR": "/opt/servers"}))
		if dir != "/opt/servers" {
			t.Errorf("ResolveInstallDir = %q, want /opt/servers", dir)
		}
	})

	t.Run("EmptyOverrideIgnored", func(t *testing.T) {
		dir := ResolveInstallDir(fakeLookup(map[string]string{"VSCODE_SERVER_DIR": ""}))
		if dir == "" {
			t.Error("ResolveInstallDir should fall back for empty override")
		}
	})

	t.Run("CacheDirFallback", func(t *testing.T) {
		dir := ResolveInstallDir(fakeLookup(nil))
		if dir == "" {
			t.Fatal("ResolveInstallDir returned empty path")
		}
		if dir != "vscode-server" && !strings.HasSuffix(dir, "vscode-server-backend") {
			t.Errorf("unexpected fallback dir: %q", dir)
		}
	})
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	env := map[string]string{
		"VSCODE_PORT":       "9090",
		"VSCODE_HOST":       "0.0.0.0",
		"VSCODE_SERVER_DIR": "/srv/vscode",
	}
	if err := cfg.ApplyEnv(fakeLookup(env)); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Server.Host != "0.0.0.0" || cfg.Server.InstallDir != "/srv/vscode" {
		t.Errorf("ApplyEnv did not apply overrides: %+v", cfg.Server)
	}

	cfg = DefaultConfig()
	if err := cfg.ApplyEnv(fakeLookup(map[string]string{"VSCODE_PORT": "not-a-port"})); err == nil {
		t.Error("ApplyEnv should reject non-numeric VSCODE_PORT")
	}
}
