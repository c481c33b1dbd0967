package model

import (
	"encoding/json"
	"testing"
)

func TestTaskID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected TaskID
		wantErr  bool
	}{
		{`{"task_id": "3f2c-11"}`, "3f2c-11", false},
		{`{"task_id": 42}`, "42", false},
		{`{"task_id": 12345678901234567890}`, "12345678901234567890", false},
		{`{"task_id": null}`, "", false},
		{`{}`, "", false},
		{`{"task_id": true}`, "", true},
	}

	for _, test := range tests {
		var body struct {
			TaskID TaskID `json:"task_id"`
		}
		err := json.Unmarshal([]byte(test.input), &body)
		if (err != nil) != test.wantErr {
			t.Errorf("Unmarshal(%s) error = %v, wantErr %v", test.input, err, test.wantErr)
			continue
		}
		if err == nil && body.TaskID != test.expected {
			t.Errorf("Unmarshal(%s) = %q, expected %q", test.input, body.TaskID, test.expected)
		}
	}
}

func TestPercentOf(t *testing.T) {
	tests := []struct {
		sent, total int64
		expected    int
	}{
		{50, 200, 25},
		{0, 200, 0},
		{200, 200, 100},
		{250, 200, 100},
		{1, 3, 33},
		{10, 0, 0},
		{-5, 10, 0},
	}

	for _, test := range tests {
		if got := PercentOf(test.sent, test.total); got != test.expected {
			t.Errorf("PercentOf(%d, %d) = %d, expected %d", test.sent, test.total, got, test.expected)
		}
	}
}

func TestNewUploadTask(t *testing.T) {
	task := NewUploadTask("sub-1", []SelectedFile{NewFileFromBytes("a", nil), NewFileFromBytes("b", nil)})

	if task.Phase != PhaseUploading {
		t.Errorf("Expected phase Uploading, got %s", task.Phase)
	}
	if task.State != TaskStatePending {
		t.Errorf("Expected state PENDING, got %s", task.State)
	}
	if !equalNames(task.FileNames, []string{"a", "b"}) {
		t.Errorf("FileNames = %v", task.FileNames)
	}
	if task.SubmittedAt.IsZero() {
		t.Error("SubmittedAt should be set")
	}

	task.Finish(PhaseFailed, "boom")
	if task.Phase != PhaseFailed || task.LastError != "boom" || task.FinishedAt.IsZero() {
		t.Errorf("Finish did not update task: %+v", task)
	}
	if task.Elapsed() < 0 {
		t.Error("Elapsed should not be negative")
	}
}
