package model

import (
	"html"
	"time"

	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// ActivityEntry is an immutable, append-only audit record written as a side
// effect of every mutation. The rule logic never reads it back.
type ActivityEntry struct {
	ID        types.ActivityID     `firestore:"id" json:"id"`
	ProjectID types.ProjectID      `firestore:"project_id" json:"project_id"`
	TicketID  types.TicketID       `firestore:"ticket_id" json:"ticket_id,omitempty"` // empty for project/sprint/member operations
	SprintID  types.SprintID       `firestore:"sprint_id" json:"sprint_id,omitempty"` // empty unless the operation targets a sprint
	UserID    types.UserID         `firestore:"user_id" json:"user_id"`
	Action    types.ActivityAction `firestore:"action" json:"action"`
	// Details holds an HTML-entity-sanitized snapshot of only the changed
	// fields, never the full entity.
	Details   map[string]string `firestore:"details" json:"details,omitempty"`
	CreatedAt time.Time         `firestore:"created_at" json:"created_at"`
}

// SanitizeDetails HTML-escapes every value of a changed-fields snapshot so
// the audit trail can be rendered without further escaping.
func SanitizeDetails(details map[string]string) map[string]string {
	if details == nil {
		return nil
	}
	out := make(map[string]string, len(details))
	for k, v := range details {
		out[k] = html.EscapeString(v)
	}
	return out
}
