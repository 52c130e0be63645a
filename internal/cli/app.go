package cli

import (
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"vscodeops/internal/config"
	"vscodeops/internal/service"
	"vscodeops/internal/ui"
	"vscodeops/internal/util"
)

// AppContainer is the central dependency injection container for the application
type AppContainer struct {
	Config   *config.Config
	Logger   *zap.Logger
	Terminal *ui.Terminal
	Server   service.ServerManager

	manager *service.Manager
}

// NewApp wires up all services and dependencies based on the provided config
func NewApp(cfg *config.Config) *AppContainer {
	logger := util.NewLogger(cfg)
	terminal := ui.NewTerminal()
	client := util.NewHTTPClient(util.DefaultTimeout, logger)

	manager := service.NewManager(cfg, logger,
		service.NewResolver(client, logger),
		service.NewFetcher(client, logger))
	manager.Progress = downloadProgress()

	return &AppContainer{
		Config:   cfg,
		Logger:   logger,
		Terminal: terminal,
		Server:   manager,
		manager:  manager,
	}
}

// Close terminates any live child process and flushes log buffers
func (a *AppContainer) Close() {
	if a.manager != nil {
		a.manager.Close()
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}

// downloadProgress renders the fetch pipeline's progress as a byte bar. The
// bar is created lazily on the first report, once the total is known.
func downloadProgress() service.ProgressFunc {
	var bar *progressbar.ProgressBar
	return func(done, total int64) {
		if total <= 0 {
			return
		}
		if bar == nil {
			bar = progressbar.DefaultBytes(total, "Downloading server")
		}
		_ = bar.Set64(done)
	}
}
