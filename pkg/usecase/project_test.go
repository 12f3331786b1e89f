package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/usecase"
)

func TestProjectUseCase_Create(t *testing.T) {
	t.Run("creator becomes admin owner", func(t *testing.T) {
		env := newTestEnv(t)

		project, err := env.uc.Project.Get(as(ownerID), env.projectID)
		gt.NoError(t, err).Required()
		gt.Value(t, project.OwnerID).Equal(ownerID)

		members, _, err := env.uc.Member.List(as(ownerID), env.projectID, "", 0)
		gt.NoError(t, err).Required()
		for _, m := range members {
			if m.UserID == ownerID {
				gt.Value(t, m.Role).Equal(types.RoleAdmin)
			}
		}
	})

	t.Run("unauthenticated creation is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.uc.Project.Create(context.Background(), "ghost", "")
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrUnauthenticated)).True()
	})

	t.Run("empty name fails validation", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.uc.Project.Create(as(ownerID), "  ", "")
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrValidationFailed)).True()
	})
}

func TestProjectUseCase_Delete(t *testing.T) {
	// fill the project with one of everything the cascade has to reach
	populate := func(t *testing.T, env *testEnv) {
		t.Helper()
		sprint, err := env.uc.Sprint.Create(as(managerID), env.projectID, "Sprint 1", "")
		gt.NoError(t, err).Required()
		ticket, err := env.uc.Ticket.Create(as(developerID), env.projectID, usecase.CreateTicketInput{
			Title:    "work",
			SprintID: sprint.ID,
		})
		gt.NoError(t, err).Required()
		comment, err := env.uc.Comment.Add(as(viewerID), env.projectID, ticket.ID, "", "top")
		gt.NoError(t, err).Required()
		_, err = env.uc.Comment.Add(as(developerID), env.projectID, ticket.ID, comment.ID, "reply")
		gt.NoError(t, err).Required()
	}

	t.Run("only admins may delete a project", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.uc.Project.Delete(as(managerID), env.projectID)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrInsufficientRole)).True()
	})

	t.Run("cascade removes every dependent entity", func(t *testing.T) {
		env := newTestEnv(t)
		populate(t, env)

		gt.NoError(t, env.uc.Project.Delete(as(ownerID), env.projectID))

		ctx := context.Background()
		_, err := env.repo.Project().Get(ctx, env.projectID)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrNotFound)).True()

		tickets, _, err := env.repo.Ticket().ListByProject(ctx, env.projectID, "", 0)
		gt.NoError(t, err).Required()
		gt.Array(t, tickets).Length(0)

		sprints, _, err := env.repo.Sprint().ListByProject(ctx, env.projectID, "", 0)
		gt.NoError(t, err).Required()
		gt.Array(t, sprints).Length(0)

		entries, _, err := env.repo.Activity().ListByProject(ctx, env.projectID, "", 0)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(0)

		memberships, _, err := env.repo.Membership().ListByProject(ctx, env.projectID, "", 0)
		gt.NoError(t, err).Required()
		gt.Array(t, memberships).Length(0)

		notifications, _, err := env.repo.Notification().ListByProject(ctx, env.projectID, "", 0)
		gt.NoError(t, err).Required()
		gt.Array(t, notifications).Length(0)
	})

	t.Run("other projects are untouched", func(t *testing.T) {
		env := newTestEnv(t)
		populate(t, env)

		other, err := env.uc.Project.Create(as(ownerID), "Survivor", "")
		gt.NoError(t, err).Required()
		kept, err := env.uc.Ticket.Create(as(ownerID), other.ID, usecase.CreateTicketInput{Title: "keep me"})
		gt.NoError(t, err).Required()

		gt.NoError(t, env.uc.Project.Delete(as(ownerID), env.projectID))

		survivor, err := env.uc.Ticket.Get(as(ownerID), other.ID, kept.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, survivor.Title).Equal("keep me")
	})

	t.Run("rerunning a cascade against a gone project reports not found", func(t *testing.T) {
		env := newTestEnv(t)
		populate(t, env)
		gt.NoError(t, env.uc.Project.Delete(as(ownerID), env.projectID))

		err := env.uc.Project.Delete(as(ownerID), env.projectID)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrNotFound)).True()
	})

	t.Run("owner can resume a cascade interrupted after the memberships step", func(t *testing.T) {
		env := newTestEnv(t)
		populate(t, env)

		// memberships are gone but the project row survives, as if the
		// previous run stopped right before the final delete
		ctx := context.Background()
		memberships, _, err := env.repo.Membership().ListByProject(ctx, env.projectID, "", 0)
		gt.NoError(t, err).Required()
		for _, m := range memberships {
			gt.NoError(t, env.repo.Membership().Delete(ctx, env.projectID, m.UserID))
		}

		// former members other than the owner stay locked out
		err = env.uc.Project.Delete(as(managerID), env.projectID)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrNotAMember)).True()

		gt.NoError(t, env.uc.Project.Delete(as(ownerID), env.projectID))

		_, err = env.repo.Project().Get(ctx, env.projectID)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrNotFound)).True()
	})
}
