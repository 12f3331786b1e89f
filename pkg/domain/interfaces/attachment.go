package interfaces

import (
	"context"

	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// AttachmentRepository defines the interface for Attachment metadata.
// The file bytes themselves live in the BlobStore.
type AttachmentRepository interface {
	// Create stores attachment metadata
	Create(ctx context.Context, attachment *model.Attachment) (*model.Attachment, error)

	// Get retrieves attachment metadata; types.ErrNotFound when absent
	Get(ctx context.Context, projectID types.ProjectID, id types.AttachmentID) (*model.Attachment, error)

	// Delete removes attachment metadata. Idempotent.
	Delete(ctx context.Context, projectID types.ProjectID, id types.AttachmentID) error

	// ListByTicket retrieves attachments of a ticket, paginated
	ListByTicket(ctx context.Context, projectID types.ProjectID, ticketID types.TicketID, cursor string, limit int) ([]*model.Attachment, string, error)
}
