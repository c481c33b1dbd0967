package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TaskID is the opaque identifier the server returns for a submitted batch.
// Servers send it either as a JSON string or as a JSON number.
type TaskID string

// String returns the identifier as sent on the wire
func (id TaskID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is empty
func (id TaskID) IsZero() bool {
	return id == ""
}

// UnmarshalJSON accepts both string and numeric identifiers
func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("task id must be a string or number: %w", err)
	}
	*id = TaskID(n.String())
	return nil
}

// UploadTask tracks one submitted batch from the client side
type UploadTask struct {
	ID           TaskID    // server task identifier
	SubmissionID string    // client-generated id sent with the upload request
	FileNames    []string  // names of the files in the batch, in order
	Phase        Phase     // widget phase for this submission
	State        TaskState // last state observed from the server
	StatusText   string    // human readable status from the server, if any
	Percent      int       // 0 to 100
	Polls        int       // number of status requests issued
	LastError    string    // last error message if any
	SubmittedAt  time.Time
	FinishedAt   time.Time
}

// NewUploadTask creates an UploadTask for the given files in PhaseUploading
func NewUploadTask(submissionID string, files []SelectedFile) *UploadTask {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}

	return &UploadTask{
		SubmissionID: submissionID,
		FileNames:    names,
		Phase:        PhaseUploading,
		State:        TaskStatePending,
		SubmittedAt:  time.Now(),
	}
}

// Finish moves the task into a terminal phase and stamps FinishedAt
func (t *UploadTask) Finish(phase Phase, errMsg string) {
	t.Phase = phase
	t.LastError = errMsg
	t.FinishedAt = time.Now()
}

// Elapsed returns how long the task has been running, or ran
func (t *UploadTask) Elapsed() time.Duration {
	if t.SubmittedAt.IsZero() {
		return 0
	}
	if t.FinishedAt.IsZero() {
		return time.Since(t.SubmittedAt)
	}
	return t.FinishedAt.Sub(t.SubmittedAt)
}

// PercentOf returns sent/total as an integer percentage clamped to 0..100
func PercentOf(sent, total int64) int {
	if total <= 0 || sent <= 0 {
		return 0
	}
	if sent >= total {
		return 100
	}
	return int(sent * 100 / total)
}
