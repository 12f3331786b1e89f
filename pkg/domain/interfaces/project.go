package interfaces

import (
	"context"

	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// ProjectRepository defines the interface for Project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *model.Project) (*model.Project, error)

	// Get retrieves a project by ID; types.ErrNotFound when absent
	Get(ctx context.Context, id types.ProjectID) (*model.Project, error)

	// Update updates an existing project
	Update(ctx context.Context, project *model.Project) (*model.Project, error)

	// Delete deletes a project row. Deleting an absent project is not an
	// error so that cascades are re-runnable.
	Delete(ctx context.Context, id types.ProjectID) error
}
