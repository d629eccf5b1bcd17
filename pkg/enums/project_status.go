package enums

import "fmt"

// ProjectStatus describes the lifecycle state of a video project.
type ProjectStatus string

const (
	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusProcessing ProjectStatus = "processing"
	ProjectStatusReady      ProjectStatus = "ready"
	ProjectStatusFailed     ProjectStatus = "failed"
	ProjectStatusArchived   ProjectStatus = "archived"
)

var validProjectStatuses = []ProjectStatus{
	ProjectStatusDraft,
	ProjectStatusProcessing,
	ProjectStatusReady,
	ProjectStatusFailed,
	ProjectStatusArchived,
}

// String returns the literal string for the status.
func (p ProjectStatus) String() string {
	return string(p)
}

// IsValid reports whether the status is known.
func (p ProjectStatus) IsValid() bool {
	for _, candidate := range validProjectStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProjectStatus converts raw input into a ProjectStatus.
func ParseProjectStatus(value string) (ProjectStatus, error) {
	for _, candidate := range validProjectStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid project status %q", value)
}
