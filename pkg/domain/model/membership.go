package model

import (
	"time"

	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// Membership binds a user to a project with a role. There is at most one
// membership per (project, user) pair. The project owner's membership is
// immutable and can never be removed.
type Membership struct {
	ProjectID types.ProjectID `firestore:"project_id" json:"project_id"`
	UserID    types.UserID    `firestore:"user_id" json:"user_id"`
	Role      types.Role      `firestore:"role" json:"role"`
	InvitedBy types.UserID    `firestore:"invited_by" json:"invited_by,omitempty"`
	CreatedAt time.Time       `firestore:"created_at" json:"created_at"`
	UpdatedAt time.Time       `firestore:"updated_at" json:"updated_at"`
}
