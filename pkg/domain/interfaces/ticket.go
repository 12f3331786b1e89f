package interfaces

import (
	"context"
	"time"

	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// TicketRepository defines the interface for Ticket data access
type TicketRepository interface {
	// Create creates a new ticket, assigning its per-project Number from
	// a transactional counter
	Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error)

	// Get retrieves a ticket by ID; types.ErrNotFound when absent
	Get(ctx context.Context, projectID types.ProjectID, id types.TicketID) (*model.Ticket, error)

	// Update overwrites a ticket unconditionally (last write wins)
	Update(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error)

	// UpdateIfUnmodified overwrites the ticket only if its stored
	// UpdatedAt still equals lastSeen; otherwise types.ErrConflict. The
	// check and the write are a single atomic unit against the store.
	UpdateIfUnmodified(ctx context.Context, ticket *model.Ticket, lastSeen time.Time) (*model.Ticket, error)

	// Delete removes a ticket. Idempotent.
	Delete(ctx context.Context, projectID types.ProjectID, id types.TicketID) error

	// ListByProject retrieves tickets of a project, paginated
	ListByProject(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.Ticket, string, error)

	// ListByStatus retrieves the tickets of one status column sorted by
	// ascending order key
	ListByStatus(ctx context.Context, projectID types.ProjectID, status types.TicketStatus) ([]*model.Ticket, error)

	// ListBySprint retrieves tickets referencing a sprint, paginated
	ListBySprint(ctx context.Context, projectID types.ProjectID, sprintID types.SprintID, cursor string, limit int) ([]*model.Ticket, string, error)
}
