// Package poll runs the status loop of a submitted task as an explicit,
// cancellable job. Exactly one status request is in flight at a time and the
// next one is scheduled only after the previous response arrived.
package poll

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ytget/batch-uploader/internal/model"
	"github.com/ytget/batch-uploader/internal/transfer"
)

// DefaultInterval is the delay between a non-terminal response and the next poll
const DefaultInterval = 1000 * time.Millisecond

// ErrAttemptsExhausted is reported when a configured attempt limit is reached
var ErrAttemptsExhausted = errors.New("task did not finish within the poll limit")

// StatusFetcher is the part of the transfer client the poller needs
type StatusFetcher interface {
	Status(ctx context.Context, taskID model.TaskID) (*transfer.StatusResponse, error)
}

// WaitFunc blocks for d or until ctx is done
type WaitFunc func(ctx context.Context, d time.Duration) error

// Outcome is how a job ended
type Outcome string

const (
	OutcomeRunning   Outcome = "running"
	OutcomeSuccess   Outcome = "success"
	OutcomeFailure   Outcome = "failure"
	OutcomeError     Outcome = "error"
	OutcomeCanceled  Outcome = "canceled"
	OutcomeExhausted Outcome = "exhausted"
)

// Handler receives job events. Every callback is optional and runs on the
// job goroutine; exactly one of OnSuccess, OnFailure, OnError or OnCanceled
// is called, once, when the job ends.
type Handler struct {
	OnPending  func(status *transfer.StatusResponse, attempt int)
	OnSuccess  func(status *transfer.StatusResponse)
	OnFailure  func(status *transfer.StatusResponse)
	OnError    func(err error)
	OnCanceled func()
}

// Option configures a Poller
type Option func(*Poller)

// WithInterval sets the delay between polls
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithMaxAttempts bounds the number of status requests; 0 polls forever
func WithMaxAttempts(n int) Option {
	return func(p *Poller) {
		if n >= 0 {
			p.maxAttempts = n
		}
	}
}

// WithWait replaces the timer used between polls
func WithWait(wait WaitFunc) Option {
	return func(p *Poller) {
		if wait != nil {
			p.wait = wait
		}
	}
}

// Poller starts poll jobs against a status endpoint
type Poller struct {
	fetcher     StatusFetcher
	interval    time.Duration
	maxAttempts int
	wait        WaitFunc
}

// NewPoller creates a poller using fetcher for status requests
func NewPoller(fetcher StatusFetcher, opts ...Option) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		interval: DefaultInterval,
		wait:     sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the configured delay between polls
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start launches a job polling taskID until a terminal state, an error,
// the attempt limit, or cancellation.
func (p *Poller) Start(ctx context.Context, taskID model.TaskID, h Handler) *Job {
	ctx, cancel := context.WithCancel(ctx)
	job := &Job{
		TaskID:  taskID,
		cancel:  cancel,
		done:    make(chan struct{}),
		outcome: OutcomeRunning,
	}

	go p.run(ctx, job, h)
	return job
}

func (p *Poller) run(ctx context.Context, job *Job, h Handler) {
	defer close(job.done)
	defer job.cancel()

	for {
		if ctx.Err() != nil {
			job.finish(OutcomeCanceled)
			if h.OnCanceled != nil {
				h.OnCanceled()
			}
			return
		}

		attempt := int(job.attempts.Add(1))
		status, err := p.fetcher.Status(ctx, job.TaskID)
		if ctx.Err() != nil {
			// canceled while the request was in flight; drop its result
			continue
		}
		if err != nil {
			log.Printf("Status poll %d for task %s failed: %v", attempt, job.TaskID, err)
			job.finish(OutcomeError)
			if h.OnError != nil {
				h.OnError(err)
			}
			return
		}

		switch status.State.Normalize() {
		case model.TaskStateSuccess:
			log.Printf("Task %s succeeded after %d poll(s)", job.TaskID, attempt)
			job.finish(OutcomeSuccess)
			if h.OnSuccess != nil {
				h.OnSuccess(status)
			}
			return
		case model.TaskStateFailure:
			log.Printf("Task %s failed after %d poll(s): %s", job.TaskID, attempt, status.Status)
			job.finish(OutcomeFailure)
			if h.OnFailure != nil {
				h.OnFailure(status)
			}
			return
		}

		if h.OnPending != nil {
			h.OnPending(status, attempt)
		}

		if p.maxAttempts > 0 && attempt >= p.maxAttempts {
			job.finish(OutcomeExhausted)
			if h.OnError != nil {
				h.OnError(ErrAttemptsExhausted)
			}
			return
		}

		// errors here only mean ctx is done, handled at the top of the loop
		_ = p.wait(ctx, p.interval)
	}
}

// Job is a running poll loop for one task
type Job struct {
	TaskID model.TaskID

	cancel   context.CancelFunc
	done     chan struct{}
	attempts atomic.Int32

	mu      sync.Mutex
	outcome Outcome
}

// Cancel stops the job; no status request is issued after it returns,
// except one already in flight which is aborted through its context.
func (j *Job) Cancel() {
	j.cancel()
}

// Done is closed once the job has ended and its final callback returned
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job ends and returns its outcome
func (j *Job) Wait() Outcome {
	<-j.done
	return j.Outcome()
}

// Attempts returns the number of status requests issued so far
func (j *Job) Attempts() int {
	return int(j.attempts.Load())
}

// Outcome returns how the job ended, or OutcomeRunning
func (j *Job) Outcome() Outcome {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.outcome
}

func (j *Job) finish(outcome Outcome) {
	j.mu.Lock()
	j.outcome = outcome
	j.mu.Unlock()
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
