package cmd

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mlazzje/dlgmail/internal/logging"
)

// rootCmd represents the base command for the dlgmail application
var rootCmd = &cobra.Command{
	Use:   "dlgmail",
	Short: "Downloads all attachments of Gmail messages in one go",
	Long: `dlgmail resolves and downloads every attachment of one or more Gmail
messages, saving them into a local directory and optionally bundling them
into a zip archive.

It can run as:
  - A standalone CLI tool (default)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "dlgmail version %s\n" .Version}}`)

	// If no subcommand is provided, run the download command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "download")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// suppressedLogPatterns lists log lines dropped at the default level.
// retryablehttp reports every failed attempt; transient failures are
// retried and, when the budget runs out, surface in the batch result.
var suppressedLogPatterns = []string{
	`^request failed$`,
	`^retrying request$`,
}

// newLogger builds the process logger. Diagnostics always go to stderr so
// stdout stays free for command output and the MCP transport.
func newLogger(debug bool) logging.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	if !debug {
		if filtered, err := logging.NewFilterHandler(handler, suppressedLogPatterns); err == nil {
			handler = filtered
		}
	}

	return logging.NewSlogAdapter(slog.New(handler))
}

// defaultDownloadDir mirrors the browser convention of saving attachments
// into the user's Downloads folder.
func defaultDownloadDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Downloads")
	}
	return "."
}
