package types

import "fmt"

// SprintStatus represents the lifecycle state of a sprint. The lifecycle is
// strictly forward: planning → active → completed, no reopening.
type SprintStatus string

const (
	SprintStatusPlanning  SprintStatus = "planning"
	SprintStatusActive    SprintStatus = "active"
	SprintStatusCompleted SprintStatus = "completed"
)

// AllSprintStatuses returns all valid sprint statuses in lifecycle order
func AllSprintStatuses() []SprintStatus {
	return []SprintStatus{
		SprintStatusPlanning,
		SprintStatusActive,
		SprintStatusCompleted,
	}
}

// IsValid checks if the sprint status is valid
func (s SprintStatus) IsValid() bool {
	switch s {
	case SprintStatusPlanning, SprintStatusActive, SprintStatusCompleted:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the lifecycle permits moving from s to
// next. Only forward transitions are allowed.
func (s SprintStatus) CanTransitionTo(next SprintStatus) bool {
	switch s {
	case SprintStatusPlanning:
		return next == SprintStatusActive || next == SprintStatusCompleted
	case SprintStatusActive:
		return next == SprintStatusCompleted
	default:
		return false
	}
}

// String returns the string representation of the sprint status
func (s SprintStatus) String() string {
	return string(s)
}

// ParseSprintStatus parses a string into a SprintStatus
func ParseSprintStatus(s string) (SprintStatus, error) {
	status := SprintStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid sprint status: %s", s)
	}
	return status, nil
}
