package interfaces

import (
	"context"

	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// ActivityRepository defines the interface for the append-only audit trail
type ActivityRepository interface {
	// Append writes one immutable activity record
	Append(ctx context.Context, entry *model.ActivityEntry) (*model.ActivityEntry, error)

	// ListByProject retrieves activity of a project, paginated, newest first
	ListByProject(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.ActivityEntry, string, error)

	// ListByTicket retrieves activity referencing a ticket, paginated
	ListByTicket(ctx context.Context, projectID types.ProjectID, ticketID types.TicketID, cursor string, limit int) ([]*model.ActivityEntry, string, error)

	// Delete removes a single activity record. Idempotent. Used only by
	// deletion cascades.
	Delete(ctx context.Context, projectID types.ProjectID, id types.ActivityID) error
}
