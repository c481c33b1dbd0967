package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytget/batch-uploader/internal/config"
	"github.com/ytget/batch-uploader/internal/model"
	"github.com/ytget/batch-uploader/internal/platform"
	"github.com/ytget/batch-uploader/internal/poll"
	"github.com/ytget/batch-uploader/internal/transfer"
	"github.com/ytget/batch-uploader/internal/uploader"
)

type uploadOptions struct {
	server     string
	files      []string
	interval   time.Duration
	maxPolls   int
	outDir     string
	noDownload bool
}

func newUploadCmd() *cobra.Command {
	opts := uploadOptions{}

	cmd := &cobra.Command{
		Use:   "upload [files]...",
		Short: "Upload files as one batch and wait for the result",
		Long:  "Upload files as one batch, poll the task status until it finishes and download the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.files = append(opts.files, args...)
			return runUpload(cmd, opts)
		},
	}

	defaultOut, err := platform.GetHomeDownloadsDir()
	if err != nil {
		defaultOut = "."
	}

	cmd.Flags().StringVarP(&opts.server, "server", "s", config.DefaultServerURL, "Processing server URL")
	cmd.Flags().StringSliceVarP(&opts.files, "file", "f", []string{}, "File to upload")
	cmd.Flags().DurationVar(&opts.interval, "interval", time.Duration(config.DefaultPollIntervalMs)*time.Millisecond, "Delay between status polls")
	cmd.Flags().IntVar(&opts.maxPolls, "max-polls", config.DefaultPollMaxAttempts, "Give up after this many status polls (0 = unlimited)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", defaultOut, "Directory to store the result in")
	cmd.Flags().BoolVar(&opts.noDownload, "no-download", false, "Print the result URL instead of downloading it")
	return cmd
}

func runUpload(cmd *cobra.Command, opts uploadOptions) error {
	if len(opts.files) == 0 {
		return errors.New("File is required")
	}

	client, err := transfer.NewClient(opts.server, transfer.WithUserAgent("batch-upload/"+Version))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	view := newConsoleView()
	ctrl := uploader.New(view, client, uploader.WithPollOptions(
		poll.WithInterval(opts.interval),
		poll.WithMaxAttempts(opts.maxPolls),
	))

	// try to add every file
	for _, path := range opts.files {
		file, err := model.NewFileFromPath(path)
		if err != nil {
			slog.Error("Fail to add file, skipping...", "file", path, "error", err)
			continue
		}
		ctrl.AddFiles(file)
	}
	if ctrl.Len() == 0 {
		return errors.New("no readable files")
	}

	slog.Info("Start uploading", "files", ctrl.Len(), "server", client.BaseURL())
	task := ctrl.Submit(ctx).Wait()

	switch task.Phase {
	case model.PhaseDone:
		slog.Info("Done", "task", task.ID, "polls", task.Polls, "elapsed", task.Elapsed().Round(time.Millisecond))
		if opts.noDownload {
			fmt.Fprintln(cmd.OutOrStdout(), view.result())
			return nil
		}
		return fetchResult(ctx, client, task.ID, opts.outDir)
	case model.PhaseCanceled:
		slog.Info("Abort")
		return errors.New("canceled")
	default:
		return fmt.Errorf("task %s failed: %s", task.ID, task.LastError)
	}
}

// fetchResult downloads a finished task into dir
func fetchResult(ctx context.Context, d transfer.Downloader, taskID model.TaskID, dir string) error {
	saved, err := d.Download(ctx, taskID, dir)
	if err != nil {
		return fmt.Errorf("failed to download result of task %s: %w", taskID, err)
	}
	slog.Info("Saved result", "path", saved)
	return nil
}
