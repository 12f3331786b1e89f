package interfaces

import (
	"context"

	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// SprintRepository defines the interface for Sprint data access
type SprintRepository interface {
	// Create creates a new sprint in planning state
	Create(ctx context.Context, sprint *model.Sprint) (*model.Sprint, error)

	// Get retrieves a sprint by ID; types.ErrNotFound when absent
	Get(ctx context.Context, projectID types.ProjectID, id types.SprintID) (*model.Sprint, error)

	// Update updates an existing sprint
	Update(ctx context.Context, sprint *model.Sprint) (*model.Sprint, error)

	// Activate transitions the sprint to active. The check that no other
	// sprint in the project is active and the status write are a single
	// atomic unit; a second active sprint yields types.ErrInvariantViolated.
	Activate(ctx context.Context, projectID types.ProjectID, id types.SprintID) (*model.Sprint, error)

	// Delete removes a sprint row. Idempotent. Ticket orphaning is the
	// caller's responsibility and happens before this call.
	Delete(ctx context.Context, projectID types.ProjectID, id types.SprintID) error

	// ListByProject retrieves sprints of a project, paginated
	ListByProject(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.Sprint, string, error)
}
