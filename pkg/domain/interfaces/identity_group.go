package interfaces

import (
	"context"

	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// IdentityGroup mirrors project membership into an external identity-group
// resource. Every call is best-effort: failures are logged by the caller and
// never abort the primary operation.
type IdentityGroup interface {
	// CreateGroup creates a group for the project and returns its handle
	CreateGroup(ctx context.Context, projectID types.ProjectID, name string) (string, error)

	// AddMember adds a user to the group
	AddMember(ctx context.Context, groupID string, userID types.UserID) error

	// RemoveMember removes a user from the group
	RemoveMember(ctx context.Context, groupID string, userID types.UserID) error

	// DeleteGroup deletes the group
	DeleteGroup(ctx context.Context, groupID string) error
}
