package uploader

import (
	"github.com/ytget/batch-uploader/internal/model"
	"github.com/ytget/batch-uploader/internal/transfer"
)

// View is the set of UI surfaces the controller drives. Implementations must
// be safe to call from any goroutine.
type View interface {
	// RenderFiles redraws the file list
	RenderFiles(files []model.SelectedFile)
	// SetSubmitEnabled toggles the start button
	SetSubmitEnabled(enabled bool)
	// SetDropHighlight toggles the drop zone highlight
	SetDropHighlight(on bool)

	ShowProgress()
	SetProgress(percent int)
	HideProgress()

	// Notify and NotifyError show a blocking user notification
	Notify(message string)
	NotifyError(message string)

	// Navigate opens the download location of a finished task
	Navigate(url string)
}

// Backend is the server the controller submits to
type Backend interface {
	transfer.Uploader
}

// Messages holds the user visible texts. Format strings take the error
// or server status as their only argument.
type Messages struct {
	UploadFailed       string
	ProcessingComplete string
	ProcessingFailed   string
	PollFailed         string
}

// DefaultMessages returns the English texts
func DefaultMessages() Messages {
	return Messages{
		UploadFailed:       "Upload failed: %v",
		ProcessingComplete: "Processing complete! Downloading...",
		ProcessingFailed:   "Processing failed: %s",
		PollFailed:         "Could not get task status: %v",
	}
}

// merged fills empty fields from the defaults
func (m Messages) merged() Messages {
	d := DefaultMessages()
	if m.UploadFailed == "" {
		m.UploadFailed = d.UploadFailed
	}
	if m.ProcessingComplete == "" {
		m.ProcessingComplete = d.ProcessingComplete
	}
	if m.ProcessingFailed == "" {
		m.ProcessingFailed = d.ProcessingFailed
	}
	if m.PollFailed == "" {
		m.PollFailed = d.PollFailed
	}
	return m
}
