package model

// TaskState is the processing state reported by the server for a submitted batch
type TaskState string

const (
	// TaskStatePending means the server has not finished processing. Any state
	// string the client does not recognise is treated the same way.
	TaskStatePending TaskState = "PENDING"

	// TaskStateSuccess means processing finished and the result can be downloaded
	TaskStateSuccess TaskState = "SUCCESS"

	// TaskStateFailure means processing failed on the server
	TaskStateFailure TaskState = "FAILURE"
)

// String returns the string representation of TaskState
func (ts TaskState) String() string {
	return string(ts)
}

// IsTerminal returns true if the state ends the poll loop
func (ts TaskState) IsTerminal() bool {
	return ts == TaskStateSuccess || ts == TaskStateFailure
}

// Normalize maps any non-terminal state onto TaskStatePending.
// Servers commonly report intermediate states such as STARTED or PROGRESS.
// Matching is exact: " SUCCESS " or "success" stay pending.
func (ts TaskState) Normalize() TaskState {
	switch ts {
	case TaskStateSuccess:
		return TaskStateSuccess
	case TaskStateFailure:
		return TaskStateFailure
	default:
		return TaskStatePending
	}
}

// Phase represents where the upload widget is in its lifecycle
type Phase string

const (
	// PhaseSelecting means the user is adding or removing files
	PhaseSelecting Phase = "Selecting"

	// PhaseUploading means the multipart request body is being transferred
	PhaseUploading Phase = "Uploading"

	// PhasePolling means the server accepted the batch and is being polled
	PhasePolling Phase = "Polling"

	// PhaseDone means the server reported success
	PhaseDone Phase = "Done"

	// PhaseFailed means the upload or the processing failed
	PhaseFailed Phase = "Failed"

	// PhaseCanceled means the submission was canceled locally
	PhaseCanceled Phase = "Canceled"
)

// String returns the string representation of Phase
func (p Phase) String() string {
	return string(p)
}

// IsActive returns true while a submission is in flight
func (p Phase) IsActive() bool {
	return p == PhaseUploading || p == PhasePolling
}

// IsFinished returns true if the phase is terminal (done, failed, or canceled)
func (p Phase) IsFinished() bool {
	return p == PhaseDone || p == PhaseFailed || p == PhaseCanceled
}
