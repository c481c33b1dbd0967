package cli

import (
	"log/slog"
	"sync"

	"github.com/ytget/batch-uploader/internal/model"
)

// progressStep is the percent granularity of progress records
const progressStep = 10

// consoleView renders the upload widget as slog records
type consoleView struct {
	mu           sync.Mutex
	lastProgress int
	resultURL    string
}

func newConsoleView() *consoleView {
	return &consoleView{lastProgress: -1}
}

func (v *consoleView) RenderFiles(files []model.SelectedFile) {
	for i, f := range files {
		slog.Debug("Selected", "index", i, "file", f.Name, "size", f.Size)
	}
}

func (v *consoleView) SetSubmitEnabled(enabled bool) {}

func (v *consoleView) SetDropHighlight(on bool) {}

func (v *consoleView) ShowProgress() {
	slog.Info("Uploading")
}

func (v *consoleView) SetProgress(percent int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	// one record per step bucket, plus completion
	if percent == v.lastProgress {
		return
	}
	if percent != 100 && v.lastProgress >= 0 && percent/progressStep == v.lastProgress/progressStep {
		return
	}
	v.lastProgress = percent
	slog.Info("Progress", "percent", percent)
}

func (v *consoleView) HideProgress() {}

func (v *consoleView) Notify(message string) {
	slog.Info(message)
}

func (v *consoleView) NotifyError(message string) {
	slog.Error(message)
}

// Navigate records the result URL; the caller fetches it once the submission ends
func (v *consoleView) Navigate(url string) {
	v.mu.Lock()
	v.resultURL = url
	v.mu.Unlock()

	slog.Info("Result available", "url", url)
}

func (v *consoleView) result() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.resultURL
}
