package model

import (
	"time"

	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// Notification is a persisted inbox entry for a user, also handed to the
// push notifier. Delivery failures never fail the originating operation.
type Notification struct {
	ID        types.NotificationID   `firestore:"id" json:"id"`
	UserID    types.UserID           `firestore:"user_id" json:"user_id"`
	Kind      types.NotificationKind `firestore:"kind" json:"kind"`
	ProjectID types.ProjectID        `firestore:"project_id" json:"project_id"`
	TicketID  types.TicketID         `firestore:"ticket_id" json:"ticket_id,omitempty"` // empty for project-level notifications
	ActorID   types.UserID           `firestore:"actor_id" json:"actor_id"`
	Message   string                 `firestore:"message" json:"message"`
	Read      bool                   `firestore:"read" json:"read"`
	CreatedAt time.Time              `firestore:"created_at" json:"created_at"`
}
