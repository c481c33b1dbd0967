package model

import "testing"

func TestTaskState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    TaskState
		expected bool
	}{
		{TaskStatePending, false},
		{TaskStateSuccess, true},
		{TaskStateFailure, true},
		{TaskState("PROGRESS"), false},
		{TaskState("STARTED"), false},
		{TaskState(""), false},
	}

	for _, test := range tests {
		result := test.state.IsTerminal()
		if result != test.expected {
			t.Errorf("TaskState(%s).IsTerminal() = %v, expected %v", test.state, result, test.expected)
		}
	}
}

func TestTaskState_Normalize(t *testing.T) {
	tests := []struct {
		state    TaskState
		expected TaskState
	}{
		{TaskStateSuccess, TaskStateSuccess},
		{TaskStateFailure, TaskStateFailure},
		{TaskStatePending, TaskStatePending},
		{TaskState("PROGRESS"), TaskStatePending},
		{TaskState(" SUCCESS "), TaskStatePending},
		{TaskState(" FAILURE "), TaskStatePending},
		{TaskState("FAILURE\n"), TaskStatePending},
		{TaskState("success"), TaskStatePending},
		{TaskState(""), TaskStatePending},
	}

	for _, test := range tests {
		result := test.state.Normalize()
		if result != test.expected {
			t.Errorf("TaskState(%q).Normalize() = %s, expected %s", test.state, result, test.expected)
		}
	}
}

func TestPhase_IsActive(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected bool
	}{
		{PhaseSelecting, false},
		{PhaseUploading, true},
		{PhasePolling, true},
		{PhaseDone, false},
		{PhaseFailed, false},
		{PhaseCanceled, false},
	}

	for _, test := range tests {
		result := test.phase.IsActive()
		if result != test.expected {
			t.Errorf("Phase(%s).IsActive() = %v, expected %v", test.phase, result, test.expected)
		}
	}
}

func TestPhase_IsFinished(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected bool
	}{
		{PhaseSelecting, false},
		{PhaseUploading, false},
		{PhasePolling, false},
		{PhaseDone, true},
		{PhaseFailed, true},
		{PhaseCanceled, true},
	}

	for _, test := range tests {
		result := test.phase.IsFinished()
		if result != test.expected {
			t.Errorf("Phase(%s).IsFinished() = %v, expected %v", test.phase, result, test.expected)
		}
	}
}

func TestTaskState_String(t *testing.T) {
	if TaskStateSuccess.String() != "SUCCESS" {
		t.Errorf("TaskState.String() = %s, expected SUCCESS", TaskStateSuccess.String())
	}
}
