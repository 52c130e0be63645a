// Package cli provides the command-line interface for vscodeops
package cli

// init registers all commands and their flags
func init() {
	rootCmd.AddCommand(startCmd, downloadCmd, statusCmd, initCmd)

	startCmd.Flags().IntVarP(&flagPort, "port", "p", 8001, "port the server listens on (env: VSCODE_PORT)")
	startCmd.Flags().StringVarP(&flagHost, "host", "H", "127.0.0.1", "host the server binds to (env: VSCODE_HOST)")
	startCmd.Flags().StringVar(&flagInstallDir, "install-dir", "", "server install directory (env: VSCODE_SERVER_DIR)")
	startCmd.Flags().StringVar(&flagToken, "token", "", "connection token for securing the server")
	startCmd.Flags().StringArrayVar(&flagExtraArgs, "extra-args", nil, "additional arguments passed to the server executable")

	downloadCmd.Flags().StringVar(&flagInstallDir, "install-dir", "", "server install directory (env: VSCODE_SERVER_DIR)")
	downloadCmd.Flags().IntVar(&flagRetries, "retries", 0, "retry the whole download this many times on failure")

	initCmd.Flags().StringVarP(&outputPath, "output", "o", "", "config path")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite")
}
