package interfaces

import (
	"context"

	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// MembershipRepository defines the interface for Membership data access.
// A membership is keyed by (projectID, userID).
type MembershipRepository interface {
	// Put creates or replaces a membership
	Put(ctx context.Context, membership *model.Membership) (*model.Membership, error)

	// Get retrieves a membership; types.ErrNotFound when the user is not
	// a member of the project
	Get(ctx context.Context, projectID types.ProjectID, userID types.UserID) (*model.Membership, error)

	// Delete removes a membership. Idempotent.
	Delete(ctx context.Context, projectID types.ProjectID, userID types.UserID) error

	// ListByProject retrieves memberships of a project, paginated. An
	// empty next cursor means the listing is exhausted.
	ListByProject(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.Membership, string, error)

	// ListByUser retrieves all memberships of a user across projects
	ListByUser(ctx context.Context, userID types.UserID) ([]*model.Membership, error)
}
