package enums

import "fmt"

// StepStatus describes the execution state of a single pipeline step.
type StepStatus string

const (
	StepStatusPending    StepStatus = "pending"
	StepStatusProcessing StepStatus = "processing"
	StepStatusCompleted  StepStatus = "completed"
	StepStatusFailed     StepStatus = "failed"
)

var validStepStatuses = []StepStatus{
	StepStatusPending,
	StepStatusProcessing,
	StepStatusCompleted,
	StepStatusFailed,
}

// String returns the literal string for the status.
func (s StepStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is known.
func (s StepStatus) IsValid() bool {
	for _, candidate := range validStepStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStepStatus converts raw input into a StepStatus.
func ParseStepStatus(value string) (StepStatus, error) {
	for _, candidate := range validStepStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid step status %q", value)
}
