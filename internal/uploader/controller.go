// Package uploader implements the upload widget: it owns the selected file
// list, submits batches and follows each submitted task until the server
// reports a terminal state. All UI surfaces are injected through View.
package uploader

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/ytget/batch-uploader/internal/model"
	"github.com/ytget/batch-uploader/internal/poll"
	"github.com/ytget/batch-uploader/internal/transfer"
)

// Option configures a Controller
type Option func(*Controller)

// WithMessages replaces the user visible texts
func WithMessages(m Messages) Option {
	return func(c *Controller) {
		c.messages = m.merged()
	}
}

// WithPollOptions configures the poller used for every submission
func WithPollOptions(opts ...poll.Option) Option {
	return func(c *Controller) {
		c.pollOpts = append(c.pollOpts, opts...)
	}
}

// WithSubmissionIDs replaces the generator of client submission ids
func WithSubmissionIDs(next func() string) Option {
	return func(c *Controller) {
		if next != nil {
			c.newID = next
		}
	}
}

// Controller is the upload widget
type Controller struct {
	view  View
	newID func() string

	mu          sync.Mutex
	backend     Backend
	messages    Messages
	pollOpts    []poll.Option
	files       *model.FileList
	highlighted bool
	last        *Submission
}

// New creates a controller and renders the initial empty state
func New(view View, backend Backend, opts ...Option) *Controller {
	c := &Controller{
		view:     view,
		backend:  backend,
		messages: DefaultMessages(),
		newID:    uuid.NewString,
		files:    model.NewFileList(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.mu.Lock()
	c.renderLocked()
	c.mu.Unlock()
	return c
}

// AddFiles appends files in the given order
func (c *Controller) AddFiles(files ...model.SelectedFile) {
	if len(files) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.files.Add(files...)
	log.Printf("Added %d file(s), %d selected", len(files), c.files.Len())
	c.renderLocked()
}

// RemoveFile removes the file at index; out of range indexes are ignored
func (c *Controller) RemoveFile(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.files.Remove(index) {
		log.Printf("Ignoring removal of index %d, %d selected", index, c.files.Len())
		return
	}
	c.renderLocked()
}

// Files returns a snapshot of the selected files
func (c *Controller) Files() []model.SelectedFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.files.Files()
}

// Len returns the number of selected files
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.files.Len()
}

// DragEnter highlights the drop zone while a drag hovers it
func (c *Controller) DragEnter() {
	c.setHighlight(true)
}

// DragLeave removes the drop zone highlight
func (c *Controller) DragLeave() {
	c.setHighlight(false)
}

// Drop ends a drag and adds the dropped files
func (c *Controller) Drop(files ...model.SelectedFile) {
	c.setHighlight(false)
	c.AddFiles(files...)
}

// Highlighted reports whether the drop zone is highlighted
func (c *Controller) Highlighted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.highlighted
}

// SetPollOptions replaces the poll options used by later submissions
func (c *Controller) SetPollOptions(opts ...poll.Option) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pollOpts = append([]poll.Option(nil), opts...)
}

// SetBackend switches the server used by later submissions
func (c *Controller) SetBackend(backend Backend) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backend = backend
}

// SetMessages replaces the texts used by later submissions
func (c *Controller) SetMessages(m Messages) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = m.merged()
}

// Last returns the most recent submission, or nil
func (c *Controller) Last() *Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Submit uploads the current selection and follows the resulting task on a
// background goroutine. Repeated calls start independent submissions.
func (c *Controller) Submit(ctx context.Context) *Submission {
	c.mu.Lock()
	sel := c.files.Snapshot()
	total, known := c.files.TotalSize()
	r := &run{
		backend:  c.backend,
		messages: c.messages,
		pollOpts: append([]poll.Option(nil), c.pollOpts...),
		sub:      newSubmission(ctx, c.newID(), sel.Files),
	}
	c.last = r.sub
	c.mu.Unlock()

	log.Printf("Submitting %d file(s) as %s (size=%d known=%v)", len(sel.Files), r.sub.ID, total, known)
	c.view.ShowProgress()
	c.view.SetProgress(0)

	go c.execute(r, sel)
	return r.sub
}

// run is the configuration a submission was started with
type run struct {
	backend  Backend
	messages Messages
	pollOpts []poll.Option
	sub      *Submission
}

func (c *Controller) execute(r *run, sel model.Selection) {
	sub := r.sub
	defer sub.close()

	res, err := r.backend.Submit(sub.ctx, sel.Files, c.submitOptions(sub))
	if err != nil {
		c.view.HideProgress()
		if sub.ctx.Err() != nil {
			log.Printf("Submission %s canceled during upload", sub.ID)
			sub.finish(model.PhaseCanceled, "")
			return
		}
		log.Printf("Submission %s failed: %v", sub.ID, err)
		sub.finish(model.PhaseFailed, err.Error())
		c.view.NotifyError(fmt.Sprintf(r.messages.UploadFailed, err))
		return
	}

	log.Printf("Submission %s accepted as task %s (%d bytes)", sub.ID, res.TaskID, res.BytesSent)
	sub.update(func(t *model.UploadTask) {
		t.ID = res.TaskID
		t.Phase = model.PhasePolling
	})

	// files picked while the upload ran stay selected
	c.mu.Lock()
	c.files.Discard(sel)
	c.renderLocked()
	c.mu.Unlock()

	job := poll.NewPoller(r.backend, r.pollOpts...).Start(sub.ctx, res.TaskID, c.pollHandler(r, res.TaskID))
	sub.setJob(job)
	<-job.Done()

	sub.update(func(t *model.UploadTask) { t.Polls = job.Attempts() })
}

func (c *Controller) pollHandler(r *run, taskID model.TaskID) poll.Handler {
	sub := r.sub
	return poll.Handler{
		OnPending: func(status *transfer.StatusResponse, attempt int) {
			sub.update(func(t *model.UploadTask) {
				t.Polls = attempt
				t.State = status.State
				t.StatusText = status.Status
			})
		},
		OnSuccess: func(status *transfer.StatusResponse) {
			sub.update(func(t *model.UploadTask) {
				t.State = model.TaskStateSuccess
				t.StatusText = status.Status
				t.Percent = 100
			})
			sub.finish(model.PhaseDone, "")

			c.view.SetProgress(100)
			c.view.Notify(r.messages.ProcessingComplete)
			c.view.Navigate(r.backend.DownloadURL(taskID))
		},
		OnFailure: func(status *transfer.StatusResponse) {
			sub.update(func(t *model.UploadTask) {
				t.State = model.TaskStateFailure
				t.StatusText = status.Status
			})
			reason := status.Status
			if reason == "" {
				reason = status.State.String()
			}
			sub.finish(model.PhaseFailed, reason)

			c.view.HideProgress()
			c.view.NotifyError(fmt.Sprintf(r.messages.ProcessingFailed, reason))
		},
		OnError: func(err error) {
			sub.finish(model.PhaseFailed, err.Error())

			c.view.HideProgress()
			c.view.NotifyError(fmt.Sprintf(r.messages.PollFailed, err))
		},
		OnCanceled: func() {
			sub.finish(model.PhaseCanceled, "")
			c.view.HideProgress()
		},
	}
}

func (c *Controller) submitOptions(sub *Submission) transfer.SubmitOptions {
	last := -1
	return transfer.SubmitOptions{
		SubmissionID: sub.ID,
		OnProgress: func(sent, total int64) {
			percent := model.PercentOf(sent, total)
			if percent == last {
				return
			}
			last = percent
			sub.update(func(t *model.UploadTask) { t.Percent = percent })
			c.view.SetProgress(percent)
		},
	}
}

func (c *Controller) setHighlight(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.highlighted == on {
		return
	}
	c.highlighted = on
	c.view.SetDropHighlight(on)
}

func (c *Controller) renderLocked() {
	c.view.RenderFiles(c.files.Files())
	c.view.SetSubmitEnabled(!c.files.IsEmpty())
}
