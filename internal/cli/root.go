// Package cli provides the command-line interface for vscodeops
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vscodeops/internal/config"
)

var (
	cfgFile string
	debug   bool

	// Version is set by ldflags during build
	Version = "dev"
)

// AppKey is the context key for the AppContainer
type AppKey struct{}

// rootCmd defines the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vscodeops",
	Short: "Manage the VS Code server backend for monaco-vscode-api",
	Long: `vscodeops downloads, starts, and manages the VS Code server backend
required by the monaco-vscode-api library.

Features:
  - Automatic version detection against the monaco-vscode-api releases
  - Idempotent download and extraction of the matching server build
  - Server lifecycle management (start, stop, status)`,
	PersistentPreRunE: initApp,
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		if a, ok := cmd.Context().Value(AppKey{}).(*AppContainer); ok {
			a.Close()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug mode")
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("vscodeops v{{.Version}}\n")
	rootCmd.Run = func(cmd *cobra.Command, _ []string) { _ = cmd.Help() }
}

// initApp handles configuration loading and dependency injection for all commands
func initApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}

	if debug {
		cfg.Debug = true
		cfg.Logging.Level = "DEBUG"
	}
	if err := applyServerFlags(cmd, cfg); err != nil {
		return err
	}

	application := NewApp(cfg)
	// Inject the application container into the command context to avoid global state "lock-in"
	ctx := context.WithValue(cmd.Context(), AppKey{}, application)
	cmd.SetContext(ctx)
	return nil
}

// applyServerFlags overlays command-line flags onto the configuration.
// Flags win over both the config file and environment variables.
func applyServerFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Server.Port = flagPort
	}
	if flags.Changed("host") {
		cfg.Server.Host = flagHost
	}
	if flags.Changed("install-dir") {
		cfg.Server.InstallDir = flagInstallDir
	}
	if flags.Changed("token") {
		cfg.Server.ConnectionToken = flagToken
	}
	if flags.Changed("extra-args") {
		cfg.Server.ExtraArgs = append(cfg.Server.ExtraArgs, flagExtraArgs...)
	}
	return cfg.Validate()
}

// App extracts the AppContainer from the command context
func App(cmd *cobra.Command) *AppContainer {
	if a, ok := cmd.Context().Value(AppKey{}).(*AppContainer); ok {
		return a
	}
	return nil
}
