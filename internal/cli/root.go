// Package cli implements the batch-upload command line: a headless upload
// widget and a local processing server.
package cli

import (
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version is reported by --version; set from main
var Version = "dev"

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "batch-upload",
		Short:         "Batch file uploader",
		Long:          "Upload files to a processing server, wait for the task to finish and fetch the result",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newServeCmd())
	return rootCmd
}

// Execute runs the command line and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.Error("Fail to execute", "error", err)
		os.Exit(1)
	}
}

// setupLogging routes slog to w. Library log.Printf output is only kept when verbose.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))

	if !verbose {
		log.SetOutput(io.Discard)
	}
}
