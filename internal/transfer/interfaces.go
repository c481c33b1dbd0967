package transfer

import (
	"context"

	"github.com/ytget/batch-uploader/internal/model"
)

// ProgressFunc receives the number of request body bytes handed to the
// transport so far and the total body length.
type ProgressFunc func(sent, total int64)

// Uploader defines the server operations the upload widget depends on.
type Uploader interface {
	Submit(ctx context.Context, files []model.SelectedFile, opts SubmitOptions) (*SubmitResult, error)
	Status(ctx context.Context, taskID model.TaskID) (*StatusResponse, error)
	DownloadURL(taskID model.TaskID) string
}

// Downloader fetches a processed result into a local directory.
type Downloader interface {
	Download(ctx context.Context, taskID model.TaskID, dir string) (string, error)
}
