package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// Sprint operations all require manager rank or above. The permission
// matrix has no dedicated sprint bit; project-editing capability is the
// equivalent ceiling (manager and admin only).
const sprintPermission = model.PermEditProject

type SprintUseCase struct {
	repo interfaces.Repository
}

func NewSprintUseCase(repo interfaces.Repository) *SprintUseCase {
	return &SprintUseCase{repo: repo}
}

func (uc *SprintUseCase) Create(ctx context.Context, projectID types.ProjectID, name, goal string) (*model.Sprint, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := authorize(ctx, uc.repo, actor, projectID, sprintPermission); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, goerr.Wrap(types.ErrValidationFailed, "sprint name is required")
	}

	created, err := uc.repo.Sprint().Create(ctx, &model.Sprint{
		ProjectID: projectID,
		Name:      name,
		Goal:      goal,
	})
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.Activity().Append(ctx, &model.ActivityEntry{
		ProjectID: projectID,
		SprintID:  created.ID,
		UserID:    actor,
		Action:    types.ActivitySprintCreated,
		Details:   map[string]string{"name": name},
	}); err != nil {
		return nil, err
	}
	return created, nil
}

func (uc *SprintUseCase) Get(ctx context.Context, projectID types.ProjectID, id types.SprintID) (*model.Sprint, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := roleOf(ctx, uc.repo, actor, projectID); err != nil {
		return nil, err
	}
	if err := validateIDs(id); err != nil {
		return nil, err
	}
	return uc.repo.Sprint().Get(ctx, projectID, id)
}

func (uc *SprintUseCase) List(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.Sprint, string, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, "", err
	}
	if _, err := roleOf(ctx, uc.repo, actor, projectID); err != nil {
		return nil, "", err
	}
	return uc.repo.Sprint().ListByProject(ctx, projectID, cursor, limit)
}

// Start activates the sprint. The single-active-sprint check and the status
// write happen atomically in the repository, so two racing starts cannot
// both succeed.
func (uc *SprintUseCase) Start(ctx context.Context, projectID types.ProjectID, id types.SprintID) (*model.Sprint, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := authorize(ctx, uc.repo, actor, projectID, sprintPermission); err != nil {
		return nil, err
	}
	if err := validateIDs(id); err != nil {
		return nil, err
	}

	activated, err := uc.repo.Sprint().Activate(ctx, projectID, id)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.Activity().Append(ctx, &model.ActivityEntry{
		ProjectID: projectID,
		SprintID:  id,
		UserID:    actor,
		Action:    types.ActivitySprintStarted,
		Details:   map[string]string{"name": activated.Name},
	}); err != nil {
		return nil, err
	}
	return activated, nil
}

// Complete finishes the sprint. Completing an already completed sprint is a
// no-op so the operation is retry-safe.
func (uc *SprintUseCase) Complete(ctx context.Context, projectID types.ProjectID, id types.SprintID) (*model.Sprint, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := authorize(ctx, uc.repo, actor, projectID, sprintPermission); err != nil {
		return nil, err
	}
	if err := validateIDs(id); err != nil {
		return nil, err
	}

	sprint, err := uc.repo.Sprint().Get(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if sprint.Status == types.SprintStatusCompleted {
		return sprint, nil
	}

	sprint.Status = types.SprintStatusCompleted
	sprint.CompletedAt = time.Now().UTC()
	completed, err := uc.repo.Sprint().Update(ctx, sprint)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.Activity().Append(ctx, &model.ActivityEntry{
		ProjectID: projectID,
		SprintID:  id,
		UserID:    actor,
		Action:    types.ActivitySprintCompleted,
		Details:   map[string]string{"name": completed.Name},
	}); err != nil {
		return nil, err
	}
	return completed, nil
}

// Delete removes the sprint after orphaning its tickets. Tickets survive
// sprint deletion with their SprintID cleared; the listing is drained fully
// before any row is touched so a retry sees a consistent picture.
func (uc *SprintUseCase) Delete(ctx context.Context, projectID types.ProjectID, id types.SprintID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	if _, err := authorize(ctx, uc.repo, actor, projectID, sprintPermission); err != nil {
		return err
	}
	if err := validateIDs(id); err != nil {
		return err
	}

	sprint, err := uc.repo.Sprint().Get(ctx, projectID, id)
	if err != nil {
		return err
	}

	tickets, err := drainSprintTickets(ctx, uc.repo, projectID, id)
	if err != nil {
		return err
	}
	for _, ticket := range tickets {
		ticket.SprintID = ""
		if _, err := uc.repo.Ticket().Update(ctx, ticket); err != nil {
			return err
		}
	}

	if err := uc.repo.Sprint().Delete(ctx, projectID, id); err != nil {
		return err
	}

	if _, err := uc.repo.Activity().Append(ctx, &model.ActivityEntry{
		ProjectID: projectID,
		UserID:    actor,
		Action:    types.ActivitySprintDeleted,
		Details:   map[string]string{"name": sprint.Name},
	}); err != nil {
		return err
	}
	return nil
}
