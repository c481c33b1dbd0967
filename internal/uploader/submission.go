package uploader

import (
	"context"
	"sync"

	"github.com/ytget/batch-uploader/internal/model"
	"github.com/ytget/batch-uploader/internal/poll"
)

// Submission is the handle of one submitted batch
type Submission struct {
	ID string

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu   sync.Mutex
	task *model.UploadTask
	job  *poll.Job
}

func newSubmission(parent context.Context, id string, files []model.SelectedFile) *Submission {
	ctx, cancel := context.WithCancel(parent)
	return &Submission{
		ID:     id,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		task:   model.NewUploadTask(id, files),
	}
}

// Task returns a snapshot of the tracked task
func (s *Submission) Task() model.UploadTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := *s.task
	t.FileNames = append([]string(nil), s.task.FileNames...)
	return t
}

// Cancel aborts the upload or the poll loop, whichever is running
func (s *Submission) Cancel() {
	s.cancel()
}

// Done is closed when the submission reached a final phase
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the submission ends and returns the final task
func (s *Submission) Wait() model.UploadTask {
	<-s.done
	return s.Task()
}

// Job returns the poll job once the upload was accepted
func (s *Submission) Job() *poll.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.job
}

func (s *Submission) update(fn func(t *model.UploadTask)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.task)
}

func (s *Submission) finish(phase model.Phase, errMsg string) {
	s.update(func(t *model.UploadTask) {
		t.Finish(phase, errMsg)
	})
}

func (s *Submission) setJob(job *poll.Job) {
	s.mu.Lock()
	s.job = job
	s.mu.Unlock()
}

func (s *Submission) close() {
	s.cancel()
	close(s.done)
}
