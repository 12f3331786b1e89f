package model

import (
	"time"

	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// Ticket is a unit of work on a project board.
//
// UpdatedAt doubles as the optimistic-concurrency version token: callers that
// want conflict detection pass the value they last observed, and the update
// is rejected when the stored value differs.
type Ticket struct {
	ID        types.TicketID  `firestore:"id" json:"id"`
	ProjectID types.ProjectID `firestore:"project_id" json:"project_id"`
	// Number is the human-readable ticket number, unique per project and
	// assigned from a transactional counter at creation.
	Number      int64              `firestore:"number" json:"number"`
	Title       string             `firestore:"title" json:"title"`
	Description string             `firestore:"description" json:"description"`
	Status      types.TicketStatus `firestore:"status" json:"status"`
	// Order gives the relative position within the status column.
	// Fractional values come from midpoint insertion; see ordering.go.
	Order      float64        `firestore:"order" json:"order"`
	AssigneeID types.UserID   `firestore:"assignee_id" json:"assignee_id,omitempty"`
	ReporterID types.UserID   `firestore:"reporter_id" json:"reporter_id"`
	SprintID   types.SprintID `firestore:"sprint_id" json:"sprint_id,omitempty"`
	CreatedAt  time.Time      `firestore:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `firestore:"updated_at" json:"updated_at"`
}
