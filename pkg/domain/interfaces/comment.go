package interfaces

import (
	"context"

	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// CommentRepository defines the interface for Comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(ctx context.Context, comment *model.Comment) (*model.Comment, error)

	// Get retrieves a comment by ID; types.ErrNotFound when absent
	Get(ctx context.Context, projectID types.ProjectID, id types.CommentID) (*model.Comment, error)

	// Update updates an existing comment
	Update(ctx context.Context, comment *model.Comment) (*model.Comment, error)

	// Delete removes a comment. Idempotent.
	Delete(ctx context.Context, projectID types.ProjectID, id types.CommentID) error

	// ListByTicket retrieves comments of a ticket, paginated, oldest first
	ListByTicket(ctx context.Context, projectID types.ProjectID, ticketID types.TicketID, cursor string, limit int) ([]*model.Comment, string, error)

	// ListChildren retrieves the direct replies of a comment
	ListChildren(ctx context.Context, projectID types.ProjectID, parentID types.CommentID) ([]*model.Comment, error)
}
