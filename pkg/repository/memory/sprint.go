package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

type sprintRepository struct {
	mu      sync.RWMutex
	sprints map[types.ProjectID]map[types.SprintID]*model.Sprint
}

func newSprintRepository() *sprintRepository {
	return &sprintRepository{
		sprints: make(map[types.ProjectID]map[types.SprintID]*model.Sprint),
	}
}

func copySprint(s *model.Sprint) *model.Sprint {
	copied := *s
	return &copied
}

func (r *sprintRepository) ensureProject(projectID types.ProjectID) {
	if _, exists := r.sprints[projectID]; !exists {
		r.sprints[projectID] = make(map[types.SprintID]*model.Sprint)
	}
}

func (r *sprintRepository) Create(ctx context.Context, sprint *model.Sprint) (*model.Sprint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureProject(sprint.ProjectID)

	created := copySprint(sprint)
	if created.ID == "" {
		created.ID = types.NewSprintID()
	}
	if created.Status == "" {
		created.Status = types.SprintStatusPlanning
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.sprints[sprint.ProjectID][created.ID] = created
	return copySprint(created), nil
}

func (r *sprintRepository) Get(ctx context.Context, projectID types.ProjectID, id types.SprintID) (*model.Sprint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.get(projectID, id)
}

func (r *sprintRepository) get(projectID types.ProjectID, id types.SprintID) (*model.Sprint, error) {
	bucket, exists := r.sprints[projectID]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "sprint not found",
			goerr.V("project_id", projectID), goerr.V("sprint_id", id))
	}
	sprint, exists := bucket[id]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "sprint not found",
			goerr.V("project_id", projectID), goerr.V("sprint_id", id))
	}
	return copySprint(sprint), nil
}

func (r *sprintRepository) Update(ctx context.Context, sprint *model.Sprint) (*model.Sprint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.get(sprint.ProjectID, sprint.ID)
	if err != nil {
		return nil, err
	}

	// Activation must go through Activate, which checks the single-active
	// invariant under the lock.
	if sprint.Status == types.SprintStatusActive && stored.Status != types.SprintStatusActive {
		return nil, goerr.Wrap(types.ErrInvariantViolated, "sprint cannot be activated through a field update",
			goerr.V("sprint_id", sprint.ID))
	}

	updated := copySprint(sprint)
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.sprints[sprint.ProjectID][sprint.ID] = updated
	return copySprint(updated), nil
}

// Activate flips the sprint to active. The single-active-sprint check and
// the write happen under one lock, mirroring the Firestore transaction, so
// two concurrent starts cannot both pass the precondition.
func (r *sprintRepository) Activate(ctx context.Context, projectID types.ProjectID, id types.SprintID) (*model.Sprint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sprint, err := r.get(projectID, id)
	if err != nil {
		return nil, err
	}

	if sprint.Status == types.SprintStatusActive {
		return sprint, nil
	}
	if !sprint.Status.CanTransitionTo(types.SprintStatusActive) {
		return nil, goerr.Wrap(types.ErrInvariantViolated, "sprint lifecycle is forward-only",
			goerr.V("sprint_id", id), goerr.V("status", sprint.Status))
	}

	for _, other := range r.sprints[projectID] {
		if other.ID != id && other.Status == types.SprintStatusActive {
			return nil, goerr.Wrap(types.ErrInvariantViolated, "another sprint is already active",
				goerr.V("sprint_id", id), goerr.V("active_sprint_id", other.ID))
		}
	}

	now := time.Now().UTC()
	sprint.Status = types.SprintStatusActive
	sprint.StartedAt = now
	sprint.UpdatedAt = now

	r.sprints[projectID][id] = copySprint(sprint)
	return copySprint(sprint), nil
}

func (r *sprintRepository) Delete(ctx context.Context, projectID types.ProjectID, id types.SprintID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bucket, exists := r.sprints[projectID]; exists {
		delete(bucket, id)
	}
	return nil
}

func (r *sprintRepository) ListByProject(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.Sprint, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.sprints[projectID]
	all := make([]*model.Sprint, 0, len(bucket))
	for _, s := range bucket {
		all = append(all, copySprint(s))
	}
	key := func(s *model.Sprint) string {
		return ascKey(s.CreatedAt, string(s.ID))
	}
	sort.Slice(all, func(i, j int) bool {
		return key(all[i]) < key(all[j])
	})

	page, next := paginate(all, cursor, limit, key)
	return page, next, nil
}
