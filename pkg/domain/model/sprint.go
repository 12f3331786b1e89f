package model

import (
	"time"

	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// Sprint groups tickets for an iteration. At most one sprint per project is
// active at any time; the invariant is enforced by the repository at
// activation time.
type Sprint struct {
	ID          types.SprintID     `firestore:"id" json:"id"`
	ProjectID   types.ProjectID    `firestore:"project_id" json:"project_id"`
	Name        string             `firestore:"name" json:"name"`
	Goal        string             `firestore:"goal" json:"goal"`
	Status      types.SprintStatus `firestore:"status" json:"status"`
	StartedAt   time.Time          `firestore:"started_at" json:"started_at,omitzero"`   // zero until started
	CompletedAt time.Time          `firestore:"completed_at" json:"completed_at,omitzero"` // zero until completed
	CreatedAt   time.Time          `firestore:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `firestore:"updated_at" json:"updated_at"`
}
