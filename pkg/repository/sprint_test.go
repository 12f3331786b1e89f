package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

func runSprintRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create starts in planning", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Sprint().Create(ctx, &model.Sprint{
			ProjectID: types.NewProjectID(),
			Name:      "Sprint 1",
		})
		gt.NoError(t, err).Required()
		gt.B(t, created.ID == "").False()
		gt.Value(t, created.Status).Equal(types.SprintStatusPlanning)
		gt.B(t, created.StartedAt.IsZero()).True()
	})

	t.Run("Activate enforces the single-active invariant", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		projectID := types.NewProjectID()

		first, err := repo.Sprint().Create(ctx, &model.Sprint{ProjectID: projectID, Name: "one"})
		gt.NoError(t, err).Required()
		second, err := repo.Sprint().Create(ctx, &model.Sprint{ProjectID: projectID, Name: "two"})
		gt.NoError(t, err).Required()

		activated, err := repo.Sprint().Activate(ctx, projectID, first.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, activated.Status).Equal(types.SprintStatusActive)
		gt.B(t, activated.StartedAt.IsZero()).False()

		_, err = repo.Sprint().Activate(ctx, projectID, second.ID)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrInvariantViolated)).True()
	})

	t.Run("Activate on an active sprint is a no-op", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		projectID := types.NewProjectID()

		sprint, err := repo.Sprint().Create(ctx, &model.Sprint{ProjectID: projectID, Name: "one"})
		gt.NoError(t, err).Required()
		activated, err := repo.Sprint().Activate(ctx, projectID, sprint.ID)
		gt.NoError(t, err).Required()

		again, err := repo.Sprint().Activate(ctx, projectID, sprint.ID)
		gt.NoError(t, err).Required()
		gt.B(t, again.StartedAt.Equal(activated.StartedAt)).True()
	})

	t.Run("Activate rejects completed sprints", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		projectID := types.NewProjectID()

		sprint, err := repo.Sprint().Create(ctx, &model.Sprint{ProjectID: projectID, Name: "one"})
		gt.NoError(t, err).Required()

		sprint.Status = types.SprintStatusCompleted
		_, err = repo.Sprint().Update(ctx, sprint)
		gt.NoError(t, err).Required()

		_, err = repo.Sprint().Activate(ctx, projectID, sprint.ID)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrInvariantViolated)).True()
	})

	t.Run("Update refuses activation", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		projectID := types.NewProjectID()

		sprint, err := repo.Sprint().Create(ctx, &model.Sprint{ProjectID: projectID, Name: "one"})
		gt.NoError(t, err).Required()

		sprint.Status = types.SprintStatusActive
		_, err = repo.Sprint().Update(ctx, sprint)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrInvariantViolated)).True()
	})

	t.Run("a project in another tenant may activate freely", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p1 := types.NewProjectID()
		p2 := types.NewProjectID()

		one, err := repo.Sprint().Create(ctx, &model.Sprint{ProjectID: p1, Name: "one"})
		gt.NoError(t, err).Required()
		two, err := repo.Sprint().Create(ctx, &model.Sprint{ProjectID: p2, Name: "two"})
		gt.NoError(t, err).Required()

		_, err = repo.Sprint().Activate(ctx, p1, one.ID)
		gt.NoError(t, err).Required()
		_, err = repo.Sprint().Activate(ctx, p2, two.ID)
		gt.NoError(t, err).Required()
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		projectID := types.NewProjectID()

		sprint, err := repo.Sprint().Create(ctx, &model.Sprint{ProjectID: projectID, Name: "one"})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Sprint().Delete(ctx, projectID, sprint.ID))
		gt.NoError(t, repo.Sprint().Delete(ctx, projectID, sprint.ID))

		_, err = repo.Sprint().Get(ctx, projectID, sprint.ID)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrNotFound)).True()
	})

	t.Run("ListByProject pages through sprints", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		projectID := types.NewProjectID()

		for i := 0; i < 3; i++ {
			_, err := repo.Sprint().Create(ctx, &model.Sprint{ProjectID: projectID, Name: "s"})
			gt.NoError(t, err).Required()
		}

		var all []*model.Sprint
		cursor := ""
		for {
			page, next, err := repo.Sprint().ListByProject(ctx, projectID, cursor, 2)
			gt.NoError(t, err).Required()
			all = append(all, page...)
			if next == "" {
				break
			}
			cursor = next
		}
		gt.Array(t, all).Length(3)
	})
}

func TestSprintRepository_Memory(t *testing.T) {
	runSprintRepositoryTest(t, newMemoryRepo)
}

func TestSprintRepository_Firestore(t *testing.T) {
	runSprintRepositoryTest(t, newFirestoreRepo)
}
