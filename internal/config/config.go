// Package config provides configuration management for vscodeops
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// LookupFunc resolves an environment variable. Passing the lookup explicitly
// keeps ambient environment reads out of the pipeline; os.LookupEnv is the
// production implementation.
type LookupFunc func(key string) (string, bool)

// Config is the main configuration object
type Config struct {
	Debug bool `toml:"debug"`

	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig contains connection and lifecycle settings for the managed
// VS Code server process. It is fixed once a manager is constructed.
type ServerConfig struct {
	Port             int      `toml:"port"`
	Host             string   `toml:"host"`
	ExtraArgs        []string `toml:"extra_args"`
	InstallDir       string   `toml:"install_dir"`
	DisableTelemetry bool     `toml:"disable_telemetry"`
	ConnectionToken  string   `toml:"connection_token"`
	StartupDelay     float64  `toml:"startup_delay"`
}

// LoggingConfig defines log output levels and formats
type LoggingConfig struct {
	Level          string `toml:"level"`
	Format         string `toml:"format"`
	FileEnabled    bool   `toml:"file_enabled"`
	ConsoleEnabled bool   `toml:"console_enabled"`
	Dir            string `toml:"dir"`
}

// DefaultConfig returns a configuration with production-ready defaults
func DefaultConfig() *Config {
	return &Config{
		Debug: false,
		Server: ServerConfig{
			Port:             8001,
			Host:             "127.0.0.1",
			ExtraArgs:        []string{"--accept-server-license-terms"},
			InstallDir:       ResolveInstallDir(os.LookupEnv),
			DisableTelemetry: true,
			StartupDelay:     2,
		},
		Logging: LoggingConfig{
			Level:          "INFO",
			Format:         "text",
			FileEnabled:    false,
			ConsoleEnabled: true,
			Dir:            defaultLogDir(),
		},
	}
}

// ResolveInstallDir determines the base directory for server installs.
// Lookup order: the VSCODE_SERVER_DIR environment override, the user cache
// directory convention, then a local fallback.
func ResolveInstallDir(lookup LookupFunc) string {
	if v, ok := lookup("VSCODE_SERVER_DIR"); ok && v != "" {
		return v
	}
	if cacheDir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cacheDir, "vscode-server-backend")
	}
	return "vscode-server"
}

// ApplyEnv overlays environment-variable overrides onto the configuration.
// Invoked once at startup with an explicit lookup; flags take precedence over
// these at the CLI layer.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup("VSCODE_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid VSCODE_PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("VSCODE_HOST"); ok && v != "" {
		c.Server.Host = v
	}
	if v, ok := lookup("VSCODE_SERVER_DIR"); ok && v != "" {
		c.Server.InstallDir = v
	}
	return nil
}

// LoadConfig loads configuration from a file or fallback paths
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		configPath = findDefaultConfig()
	}
	if configPath != "" {
		if _, err := toml.DecodeFile(configPath, config); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// SaveConfig writes the configuration to a TOML file
func (c *Config) SaveConfig(configPath string) error {
	file, err := os.Create(configPath) //nolint:gosec // config path is user-controlled
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		_ = file.Close() // Close errors are non-critical after successful encoding
	}()

	return toml.NewEncoder(file).Encode(c)
}

// Validate ensures settings are within supported bounds
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d. Must be 1-65535", c.Server.Port)
	}
	if c.Server.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if c.Server.StartupDelay < 0 {
		return fmt.Errorf("startup_delay must not be negative")
	}
	return c.validateLogging()
}

func findDefaultConfig() string {
	candidates := []string{"config.toml"}

	if cfgDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(cfgDir, "vscodeops", "config.toml"))
	}
	candidates = append(candidates, "/etc/vscodeops/config.toml")

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func defaultLogDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "logs"
	}
	return filepath.Join(homeDir, ".local", "share", "vscodeops", "logs")
}

func (c *Config) validateLogging() error {
	validLevels := []string{"DEBUG", "INFO", "WARNING", "ERROR"}
	level := strings.ToUpper(c.Logging.Level)
	if !slices.Contains(validLevels, level) {
		return fmt.Errorf("invalid log level: %s. Must be one of %v", c.Logging.Level, validLevels)
	}
	c.Logging.Level = level

	validFormats := []string{"json", "text"}
	format := strings.ToLower(c.Logging.Format)
	if !slices.Contains(validFormats, format) {
		return fmt.Errorf("invalid log format: %s. Must be one of %v", c.Logging.Format, validFormats)
	}
	c.Logging.Format = format
	return nil
}
