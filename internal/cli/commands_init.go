package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"vscodeops/internal/config"
)

var (
	outputPath string
	force      bool
)

// initCmd scaffolds a new configuration file with default settings
var initCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Initialize a new configuration file",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return nil // Skip app initialization - config may not exist yet
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		if outputPath == "" {
			outputPath = "config.toml"
		}
		if info, err := os.Stat(outputPath); err == nil && !force {
			if info.IsDir() {
				return fmt.Errorf("output path is a directory")
			}
			fmt.Printf("WARNING: Config already exists: %s\n", outputPath)
			fmt.Println("Use --force to overwrite")
			return nil
		}
		if dir := filepath.Dir(outputPath); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
		}
		cfg := config.DefaultConfig()
		if err := cfg.SaveConfig(outputPath); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Printf("Configuration created: %s\n", outputPath)
		fmt.Println("Next steps:")
		fmt.Printf("  1. Edit the config: %s\n", outputPath)
		fmt.Println("  2. Download the server: vscodeops download")
		fmt.Println("  3. Start it: vscodeops start")
		return nil
	},
}
