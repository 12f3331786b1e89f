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

func runMembershipRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put then Get round-trips", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		projectID := types.NewProjectID()

		created, err := repo.Membership().Put(ctx, &model.Membership{
			ProjectID: projectID,
			UserID:    "U1",
			Role:      types.RoleDeveloper,
			InvitedBy: "U-owner",
		})
		gt.NoError(t, err).Required()
		gt.B(t, created.CreatedAt.IsZero()).False()

		got, err := repo.Membership().Get(ctx, projectID, "U1")
		gt.NoError(t, err).Required()
		gt.Value(t, got.Role).Equal(types.RoleDeveloper)
		gt.Value(t, got.InvitedBy).Equal(types.UserID("U-owner"))
	})

	t.Run("Get of a non-member is not found", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Membership().Get(context.Background(), types.NewProjectID(), "U-ghost")
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrNotFound)).True()
	})

	t.Run("Put replaces the role but keeps the join time", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		projectID := types.NewProjectID()

		created, err := repo.Membership().Put(ctx, &model.Membership{
			ProjectID: projectID, UserID: "U1", Role: types.RoleViewer,
		})
		gt.NoError(t, err).Required()

		created.Role = types.RoleManager
		updated, err := repo.Membership().Put(ctx, created)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Role).Equal(types.RoleManager)
		gt.B(t, updated.CreatedAt.Equal(created.CreatedAt)).True()
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		projectID := types.NewProjectID()

		_, err := repo.Membership().Put(ctx, &model.Membership{
			ProjectID: projectID, UserID: "U1", Role: types.RoleViewer,
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Membership().Delete(ctx, projectID, "U1"))
		gt.NoError(t, repo.Membership().Delete(ctx, projectID, "U1"))
	})

	t.Run("ListByProject pages through members", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		projectID := types.NewProjectID()

		for _, userID := range []types.UserID{"U1", "U2", "U3", "U4", "U5"} {
			_, err := repo.Membership().Put(ctx, &model.Membership{
				ProjectID: projectID, UserID: userID, Role: types.RoleViewer,
			})
			gt.NoError(t, err).Required()
		}

		var all []*model.Membership
		cursor := ""
		for {
			page, next, err := repo.Membership().ListByProject(ctx, projectID, cursor, 2)
			gt.NoError(t, err).Required()
			all = append(all, page...)
			if next == "" {
				break
			}
			cursor = next
		}
		gt.Array(t, all).Length(5)
	})

	t.Run("ListByUser spans projects", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p1 := types.NewProjectID()
		p2 := types.NewProjectID()

		for _, projectID := range []types.ProjectID{p1, p2} {
			_, err := repo.Membership().Put(ctx, &model.Membership{
				ProjectID: projectID, UserID: "U1", Role: types.RoleDeveloper,
			})
			gt.NoError(t, err).Required()
		}
		_, err := repo.Membership().Put(ctx, &model.Membership{
			ProjectID: p1, UserID: "U2", Role: types.RoleViewer,
		})
		gt.NoError(t, err).Required()

		memberships, err := repo.Membership().ListByUser(ctx, "U1")
		gt.NoError(t, err).Required()
		gt.Array(t, memberships).Length(2)
	})
}

func TestMembershipRepository_Memory(t *testing.T) {
	runMembershipRepositoryTest(t, newMemoryRepo)
}

func TestMembershipRepository_Firestore(t *testing.T) {
	runMembershipRepositoryTest(t, newFirestoreRepo)
}
