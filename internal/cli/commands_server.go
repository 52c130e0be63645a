package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"vscodeops/internal/platform"
	"vscodeops/internal/util"
)

var (
	flagPort       int
	flagHost       string
	flagInstallDir string
	flagToken      string
	flagExtraArgs  []string
	flagRetries    int
)

// startCmd downloads the server if needed and runs it in the foreground
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Download the server if needed and start it",
	Long: `Ensure the VS Code server is present, start it, and keep running until
interrupted. The server process is stopped on Ctrl+C.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, a := cmd.Context(), App(cmd)

		a.Terminal.Info("Ensuring VS Code server is available...")
		if err := a.Server.Ensure(ctx); err != nil {
			a.Terminal.Error(fmt.Sprintf("Failed to ensure server: %v", err))
			return err
		}
		a.Terminal.Success("Server files are ready")

		if err := a.Server.Start(ctx); err != nil {
			a.Terminal.Error(fmt.Sprintf("Failed to start server: %v", err))
			return err
		}
		a.Terminal.Success("Server running at " + a.Server.URL())
		a.Terminal.Info("Press Ctrl+C to stop the server")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		signal.Stop(sigCh)

		a.Terminal.Info("Stopping server...")
		if err := a.Server.Stop(context.Background()); err != nil {
			a.Terminal.Error(fmt.Sprintf("Failed to stop server: %v", err))
			return err
		}
		a.Terminal.Success("Server stopped")
		return nil
	},
}

// downloadCmd ensures the server is present without starting it
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the server without starting it",
	Long: `Resolve the required server version and download it into the install
directory. Does nothing when the matching version is already present.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, a := cmd.Context(), App(cmd)

		a.Terminal.Info("Ensuring server is downloaded to: " + a.Config.Server.InstallDir)
		ensure := func() error { return a.Server.Ensure(ctx) }

		var err error
		if flagRetries > 0 {
			err = util.WithRetry(ctx, util.RetryConfig{MaxRetries: flagRetries, RetryDelay: 2}, ensure)
		} else {
			err = ensure()
		}
		if err != nil {
			a.Terminal.Error(fmt.Sprintf("Failed to download server: %v", err))
			return err
		}

		if info := a.Server.Info(); info != nil {
			a.Terminal.Success(fmt.Sprintf("Server %s (%s) is ready", info.MonacoAPIVersion, info.VSCodeCommit))
		}
		return nil
	},
}

// statusCmd reports which server versions are installed and usable
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show installed server versions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := App(cmd)
		installDir := a.Config.Server.InstallDir

		plat, err := platform.Current()
		if err != nil {
			a.Terminal.Error(err.Error())
			return err
		}

		a.Terminal.Section("Installed servers")
		a.Terminal.Printf("Install directory: %s\n", installDir)

		entries, err := os.ReadDir(installDir)
		if os.IsNotExist(err) || (err == nil && len(entries) == 0) {
			a.Terminal.Warning("No server versions installed")
			return nil
		}
		if err != nil {
			return err
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			exe := filepath.Join(installDir, entry.Name(), plat.ExecutableRelPath())
			if _, statErr := os.Stat(exe); statErr == nil {
				a.Terminal.Success(entry.Name())
			} else {
				a.Terminal.Warning(entry.Name() + " " + a.Terminal.DimSprint("(missing executable)"))
			}
		}
		return nil
	},
}
