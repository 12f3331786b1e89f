package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

func runTicketRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID, number and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		projectID := types.NewProjectID()

		created, err := repo.Ticket().Create(ctx, &model.Ticket{
			ProjectID:  projectID,
			Title:      "First",
			Status:     types.TicketStatusTodo,
			ReporterID: "U1",
		})
		gt.NoError(t, err).Required()
		gt.B(t, created.ID == "").False()
		gt.Value(t, created.Number).Equal(int64(1))
		gt.B(t, created.CreatedAt.IsZero()).False()
		gt.B(t, created.UpdatedAt.IsZero()).False()
	})

	t.Run("numbers increment per project independently", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p1 := types.NewProjectID()
		p2 := types.NewProjectID()

		for i := int64(1); i <= 2; i++ {
			created, err := repo.Ticket().Create(ctx, &model.Ticket{
				ProjectID: p1, Title: "t", Status: types.TicketStatusTodo, ReporterID: "U1",
			})
			gt.NoError(t, err).Required()
			gt.Value(t, created.Number).Equal(i)
		}

		other, err := repo.Ticket().Create(ctx, &model.Ticket{
			ProjectID: p2, Title: "t", Status: types.TicketStatusTodo, ReporterID: "U1",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, other.Number).Equal(int64(1))
	})

	t.Run("Get scopes by project", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		projectID := types.NewProjectID()

		created, err := repo.Ticket().Create(ctx, &model.Ticket{
			ProjectID: projectID, Title: "t", Status: types.TicketStatusTodo, ReporterID: "U1",
		})
		gt.NoError(t, err).Required()

		got, err := repo.Ticket().Get(ctx, projectID, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal("t")

		_, err = repo.Ticket().Get(ctx, types.NewProjectID(), created.ID)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrNotFound)).True()
	})

	t.Run("Update preserves number, reporter and creation time", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		projectID := types.NewProjectID()

		created, err := repo.Ticket().Create(ctx, &model.Ticket{
			ProjectID: projectID, Title: "before", Status: types.TicketStatusTodo, ReporterID: "U1",
		})
		gt.NoError(t, err).Required()

		tampered := *created
		tampered.Title = "after"
		tampered.Number = 999
		tampered.ReporterID = "U-evil"

		updated, err := repo.Ticket().Update(ctx, &tampered)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Title).Equal("after")
		gt.Value(t, updated.Number).Equal(created.Number)
		gt.Value(t, updated.ReporterID).Equal(types.UserID("U1"))
		gt.B(t, updated.CreatedAt.Equal(created.CreatedAt)).True()
	})

	t.Run("UpdateIfUnmodified rejects stale versions", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		projectID := types.NewProjectID()

		created, err := repo.Ticket().Create(ctx, &model.Ticket{
			ProjectID: projectID, Title: "v1", Status: types.TicketStatusTodo, ReporterID: "U1",
		})
		gt.NoError(t, err).Required()

		edit := *created
		edit.Title = "v2"
		updated, err := repo.Ticket().UpdateIfUnmodified(ctx, &edit, created.UpdatedAt)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Title).Equal("v2")

		// a second write against the old version token must fail
		stale := *created
		stale.Title = "v3"
		_, err = repo.Ticket().UpdateIfUnmodified(ctx, &stale, created.UpdatedAt)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrConflict)).True()

		got, err := repo.Ticket().Get(ctx, projectID, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal("v2")
	})

	t.Run("UpdateIfUnmodified on missing ticket is not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Ticket().UpdateIfUnmodified(ctx, &model.Ticket{
			ID:        types.NewTicketID(),
			ProjectID: types.NewProjectID(),
			Title:     "ghost",
		}, time.Now())
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrNotFound)).True()
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		projectID := types.NewProjectID()

		created, err := repo.Ticket().Create(ctx, &model.Ticket{
			ProjectID: projectID, Title: "t", Status: types.TicketStatusTodo, ReporterID: "U1",
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Ticket().Delete(ctx, projectID, created.ID))
		gt.NoError(t, repo.Ticket().Delete(ctx, projectID, created.ID))
	})

	t.Run("ListByProject pages in number order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		projectID := types.NewProjectID()

		for i := 0; i < 5; i++ {
			_, err := repo.Ticket().Create(ctx, &model.Ticket{
				ProjectID: projectID, Title: "t", Status: types.TicketStatusTodo, ReporterID: "U1",
			})
			gt.NoError(t, err).Required()
		}

		var all []*model.Ticket
		cursor := ""
		pages := 0
		for {
			page, next, err := repo.Ticket().ListByProject(ctx, projectID, cursor, 2)
			gt.NoError(t, err).Required()
			all = append(all, page...)
			pages++
			if next == "" {
				break
			}
			cursor = next
		}

		gt.Array(t, all).Length(5)
		gt.Number(t, pages).GreaterOrEqual(3)
		for i, ticket := range all {
			gt.Value(t, ticket.Number).Equal(int64(i + 1))
		}
	})

	t.Run("ListByStatus returns one column in order-key order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		projectID := types.NewProjectID()

		for _, tc := range []struct {
			status types.TicketStatus
			order  float64
		}{
			{types.TicketStatusTodo, 2},
			{types.TicketStatusTodo, 0.5},
			{types.TicketStatusDone, 1},
			{types.TicketStatusTodo, 1},
		} {
			_, err := repo.Ticket().Create(ctx, &model.Ticket{
				ProjectID: projectID, Title: "t", Status: tc.status, Order: tc.order, ReporterID: "U1",
			})
			gt.NoError(t, err).Required()
		}

		column, err := repo.Ticket().ListByStatus(ctx, projectID, types.TicketStatusTodo)
		gt.NoError(t, err).Required()
		gt.Array(t, column).Length(3)
		gt.Number(t, column[0].Order).Equal(0.5)
		gt.Number(t, column[1].Order).Equal(1)
		gt.Number(t, column[2].Order).Equal(2)
	})

	t.Run("ListBySprint filters by sprint", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		projectID := types.NewProjectID()
		sprintID := types.NewSprintID()

		for i := 0; i < 3; i++ {
			in := &model.Ticket{
				ProjectID: projectID, Title: "t", Status: types.TicketStatusTodo, ReporterID: "U1",
			}
			if i < 2 {
				in.SprintID = sprintID
			}
			_, err := repo.Ticket().Create(ctx, in)
			gt.NoError(t, err).Required()
		}

		tickets, _, err := repo.Ticket().ListBySprint(ctx, projectID, sprintID, "", 0)
		gt.NoError(t, err).Required()
		gt.Array(t, tickets).Length(2)
	})
}

func TestTicketRepository_Memory(t *testing.T) {
	runTicketRepositoryTest(t, newMemoryRepo)
}

func TestTicketRepository_Firestore(t *testing.T) {
	runTicketRepositoryTest(t, newFirestoreRepo)
}
