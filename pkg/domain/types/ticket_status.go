package types

import "fmt"

// TicketStatus represents the Kanban column a ticket sits in. Statuses are
// not ordered: any status is reachable from any other.
type TicketStatus string

const (
	TicketStatusBacklog    TicketStatus = "backlog"
	TicketStatusTodo       TicketStatus = "todo"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusInReview   TicketStatus = "in_review"
	TicketStatusDone       TicketStatus = "done"
)

// AllTicketStatuses returns all valid ticket statuses in board column order
func AllTicketStatuses() []TicketStatus {
	return []TicketStatus{
		TicketStatusBacklog,
		TicketStatusTodo,
		TicketStatusInProgress,
		TicketStatusInReview,
		TicketStatusDone,
	}
}

// IsValid checks if the ticket status is valid
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusBacklog,
		TicketStatusTodo,
		TicketStatusInProgress,
		TicketStatusInReview,
		TicketStatusDone:
		return true
	default:
		return false
	}
}

// String returns the string representation of the ticket status
func (s TicketStatus) String() string {
	return string(s)
}

// ParseTicketStatus parses a string into a TicketStatus
func ParseTicketStatus(s string) (TicketStatus, error) {
	status := TicketStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return status, nil
}
