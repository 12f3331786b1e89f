package firestore

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const projectsCollection = "projects"

type projectRepository struct {
	f *Firestore
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) (*model.Project, error) {
	created := *project
	if created.ID == "" {
		created.ID = types.NewProjectID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.f.collection(projectsCollection).Doc(created.ID.String())
	if _, err := docRef.Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create project", goerr.V("project_id", created.ID))
	}
	return &created, nil
}

func (r *projectRepository) Get(ctx context.Context, id types.ProjectID) (*model.Project, error) {
	docSnap, err := r.f.collection(projectsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "project not found", goerr.V("project_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get project", goerr.V("project_id", id))
	}

	var project model.Project
	if err := docSnap.DataTo(&project); err != nil {
		return nil, goerr.Wrap(err, "failed to decode project", goerr.V("project_id", id))
	}
	return &project, nil
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project) (*model.Project, error) {
	stored, err := r.Get(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	// Ownership never transfers
	updated := *project
	updated.OwnerID = stored.OwnerID
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	docRef := r.f.collection(projectsCollection).Doc(project.ID.String())
	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update project", goerr.V("project_id", project.ID))
	}
	return &updated, nil
}

func (r *projectRepository) Delete(ctx context.Context, id types.ProjectID) error {
	// Firestore deletes are idempotent: deleting an absent doc succeeds
	if _, err := r.f.collection(projectsCollection).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete project", goerr.V("project_id", id))
	}
	return nil
}
