package poll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ytget/batch-uploader/internal/model"
	"github.com/ytget/batch-uploader/internal/transfer"
)

// scriptedFetcher replays a fixed sequence of responses
type scriptedFetcher struct {
	mu        sync.Mutex
	responses []*transfer.StatusResponse
	errs      []error
	calls     int
	ids       []model.TaskID
	inFlight  int
	maxFlight int
	block     chan struct{}
}

func (f *scriptedFetcher) Status(ctx context.Context, taskID model.TaskID) (*transfer.StatusResponse, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxFlight {
		f.maxFlight = f.inFlight
	}
	i := f.calls
	f.calls++
	f.ids = append(f.ids, taskID)
	block := f.block
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return &transfer.StatusResponse{State: model.TaskStatePending}, nil
}

func (f *scriptedFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// recordingWait returns immediately and remembers requested delays
type recordingWait struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (w *recordingWait) Wait(ctx context.Context, d time.Duration) error {
	w.mu.Lock()
	w.delays = append(w.delays, d)
	w.mu.Unlock()
	return ctx.Err()
}

func status(state model.TaskState) *transfer.StatusResponse {
	return &transfer.StatusResponse{State: state, Status: string(state)}
}

func TestPoller_PendingThenSuccess(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []*transfer.StatusResponse{
		status(model.TaskStatePending),
		status(model.TaskStatePending),
		status(model.TaskStateSuccess),
	}}
	wait := &recordingWait{}
	p := NewPoller(fetcher, WithWait(wait.Wait))

	var pending []int
	var succeeded *transfer.StatusResponse
	job := p.Start(context.Background(), "abc", Handler{
		OnPending: func(_ *transfer.StatusResponse, attempt int) { pending = append(pending, attempt) },
		OnSuccess: func(s *transfer.StatusResponse) { succeeded = s },
		OnFailure: func(*transfer.StatusResponse) { t.Error("Unexpected failure callback") },
		OnError:   func(err error) { t.Errorf("Unexpected error callback: %v", err) },
	})

	if outcome := job.Wait(); outcome != OutcomeSuccess {
		t.Fatalf("Expected success, got %s", outcome)
	}
	if fetcher.Calls() != 3 || job.Attempts() != 3 {
		t.Errorf("Expected exactly 3 status requests, got %d (attempts %d)", fetcher.Calls(), job.Attempts())
	}
	if succeeded == nil || succeeded.State != model.TaskStateSuccess {
		t.Errorf("Expected success status, got %+v", succeeded)
	}
	if len(pending) != 2 || pending[0] != 1 || pending[1] != 2 {
		t.Errorf("Expected pending attempts [1 2], got %v", pending)
	}
	if len(wait.delays) != 2 {
		t.Fatalf("Expected 2 waits, got %d", len(wait.delays))
	}
	for _, d := range wait.delays {
		if d != DefaultInterval {
			t.Errorf("Expected wait of %v, got %v", DefaultInterval, d)
		}
	}
	for _, id := range fetcher.ids {
		if id != "abc" {
			t.Errorf("Expected task id abc, got %s", id)
		}
	}
}

func TestPoller_FailureStopsImmediately(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []*transfer.StatusResponse{status(model.TaskStateFailure)}}
	wait := &recordingWait{}
	p := NewPoller(fetcher, WithWait(wait.Wait))

	failed := false
	job := p.Start(context.Background(), "x", Handler{
		OnFailure: func(*transfer.StatusResponse) { failed = true },
	})

	if outcome := job.Wait(); outcome != OutcomeFailure {
		t.Fatalf("Expected failure, got %s", outcome)
	}
	if !failed {
		t.Error("Expected failure callback")
	}
	if fetcher.Calls() != 1 || len(wait.delays) != 0 {
		t.Errorf("Expected a single request and no wait, got %d requests %d waits", fetcher.Calls(), len(wait.delays))
	}
}

func TestPoller_UnknownStateKeepsPolling(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []*transfer.StatusResponse{
		{State: "PROGRESS"},
		{State: "STARTED"},
		status(model.TaskStateSuccess),
	}}
	p := NewPoller(fetcher, WithWait((&recordingWait{}).Wait))

	job := p.Start(context.Background(), "x", Handler{})
	if outcome := job.Wait(); outcome != OutcomeSuccess {
		t.Fatalf("Expected success, got %s", outcome)
	}
	if fetcher.Calls() != 3 {
		t.Errorf("Expected 3 requests, got %d", fetcher.Calls())
	}
}

func TestPoller_ErrorStopsJob(t *testing.T) {
	boom := errors.New("connection refused")
	fetcher := &scriptedFetcher{errs: []error{nil, boom}}
	p := NewPoller(fetcher, WithWait((&recordingWait{}).Wait))

	var got error
	job := p.Start(context.Background(), "x", Handler{OnError: func(err error) { got = err }})

	if outcome := job.Wait(); outcome != OutcomeError {
		t.Fatalf("Expected error outcome, got %s", outcome)
	}
	if !errors.Is(got, boom) {
		t.Errorf("Expected %v, got %v", boom, got)
	}
	if fetcher.Calls() != 2 {
		t.Errorf("Expected polling to stop after the error, got %d requests", fetcher.Calls())
	}
}

func TestPoller_MaxAttempts(t *testing.T) {
	fetcher := &scriptedFetcher{}
	p := NewPoller(fetcher, WithMaxAttempts(4), WithWait((&recordingWait{}).Wait))

	var got error
	job := p.Start(context.Background(), "x", Handler{OnError: func(err error) { got = err }})

	if outcome := job.Wait(); outcome != OutcomeExhausted {
		t.Fatalf("Expected exhausted, got %s", outcome)
	}
	if !errors.Is(got, ErrAttemptsExhausted) {
		t.Errorf("Expected ErrAttemptsExhausted, got %v", got)
	}
	if fetcher.Calls() != 4 {
		t.Errorf("Expected 4 requests, got %d", fetcher.Calls())
	}
}

func TestPoller_CancelDuringRequest(t *testing.T) {
	fetcher := &scriptedFetcher{block: make(chan struct{})}
	p := NewPoller(fetcher, WithWait((&recordingWait{}).Wait))

	canceled := false
	job := p.Start(context.Background(), "x", Handler{
		OnCanceled: func() { canceled = true },
		OnError:    func(err error) { t.Errorf("Cancel must not report an error: %v", err) },
	})

	for fetcher.Calls() == 0 {
		time.Sleep(time.Millisecond)
	}
	job.Cancel()

	select {
	case <-job.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Job did not stop after Cancel")
	}
	if job.Outcome() != OutcomeCanceled || !canceled {
		t.Errorf("Expected canceled outcome, got %s (callback %v)", job.Outcome(), canceled)
	}
	if fetcher.Calls() != 1 {
		t.Errorf("Expected no further requests after cancel, got %d", fetcher.Calls())
	}
}

func TestPoller_CancelDuringWait(t *testing.T) {
	fetcher := &scriptedFetcher{}
	p := NewPoller(fetcher, WithInterval(time.Hour))

	job := p.Start(context.Background(), "x", Handler{})
	for fetcher.Calls() == 0 {
		time.Sleep(time.Millisecond)
	}
	job.Cancel()

	if outcome := job.Wait(); outcome != OutcomeCanceled {
		t.Fatalf("Expected canceled, got %s", outcome)
	}
	if fetcher.Calls() != 1 {
		t.Errorf("Expected a single request, got %d", fetcher.Calls())
	}
}

func TestPoller_SingleRequestInFlight(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []*transfer.StatusResponse{
		status(model.TaskStatePending),
		status(model.TaskStatePending),
		status(model.TaskStatePending),
		status(model.TaskStateSuccess),
	}}
	p := NewPoller(fetcher, WithInterval(time.Millisecond))

	p.Start(context.Background(), "x", Handler{}).Wait()

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	if fetcher.maxFlight != 1 {
		t.Errorf("Expected at most one request in flight, got %d", fetcher.maxFlight)
	}
}

func TestNewPoller_Options(t *testing.T) {
	p := NewPoller(&scriptedFetcher{}, WithInterval(0), WithMaxAttempts(-1))
	if p.Interval() != DefaultInterval {
		t.Errorf("Expected default interval, got %v", p.Interval())
	}
	if p.maxAttempts != 0 {
		t.Errorf("Expected unbounded attempts, got %d", p.maxAttempts)
	}

	p = NewPoller(&scriptedFetcher{}, WithInterval(250*time.Millisecond))
	if p.Interval() != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %v", p.Interval())
	}
}
