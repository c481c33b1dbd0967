package cli

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ytget/batch-uploader/internal/devserver"
)

func newServeCmd() *cobra.Command {
	var (
		addr string
		cfg  devserver.Config
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local processing server",
		Long:  "Run a local server implementing the process, status and download endpoints, for trying the uploader without a real backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			gin.SetMode(gin.ReleaseMode)
			slog.Info("Serving", "addr", addr, "pending_polls", cfg.PendingPolls, "fail", cfg.Fail)
			return devserver.New(cfg).Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:5000", "Listen address")
	cmd.Flags().IntVar(&cfg.PendingPolls, "pending-polls", devserver.DefaultPendingPolls, "Status polls answered as pending before a task finishes")
	cmd.Flags().BoolVar(&cfg.Fail, "fail", false, "Finish every task with FAILURE")
	cmd.Flags().BoolVar(&cfg.AccessLog, "access-log", true, "Log every request")
	return cmd
}
