package usecase_test

import (
	"sort"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/usecase"
)

func TestBoardUseCase_Board(t *testing.T) {
	env := newTestEnv(t)
	for _, title := range []string{"a", "b"} {
		_, err := env.uc.Ticket.Create(as(developerID), env.projectID, usecase.CreateTicketInput{
			Title: title, Status: types.TicketStatusTodo,
		})
		gt.NoError(t, err).Required()
	}
	_, err := env.uc.Ticket.Create(as(developerID), env.projectID, usecase.CreateTicketInput{
		Title: "c", Status: types.TicketStatusDone,
	})
	gt.NoError(t, err).Required()

	board, err := env.uc.Board.Board(as(viewerID), env.projectID)
	gt.NoError(t, err).Required()
	gt.Array(t, board[types.TicketStatusTodo]).Length(2)
	gt.Array(t, board[types.TicketStatusDone]).Length(1)
	gt.Array(t, board[types.TicketStatusBacklog]).Length(0)
}

func TestBoardUseCase_Rebalance(t *testing.T) {
	t.Run("deep midpoints trigger the threshold and are flattened", func(t *testing.T) {
		env := newTestEnv(t)
		var ids []types.TicketID
		for _, title := range []string{"a", "b"} {
			ticket, err := env.uc.Ticket.Create(as(developerID), env.projectID, usecase.CreateTicketInput{
				Title: title, Status: types.TicketStatusTodo,
			})
			gt.NoError(t, err).Required()
			ids = append(ids, ticket.ID)
		}

		// repeatedly squeeze new tickets just after the head until the
		// order keys need more than four decimal digits
		after := ids[0]
		for i := 0; i < 14; i++ {
			ticket, err := env.uc.Ticket.Create(as(developerID), env.projectID, usecase.CreateTicketInput{
				Title: "squeezed", Status: types.TicketStatusTodo,
			})
			gt.NoError(t, err).Required()
			_, err = env.uc.Ticket.Move(as(developerID), env.projectID, ticket.ID, types.TicketStatusTodo, after)
			gt.NoError(t, err).Required()
		}

		needs, err := env.uc.Board.NeedsRebalance(as(developerID), env.projectID)
		gt.NoError(t, err).Required()
		gt.B(t, needs).True()

		before, err := env.uc.Board.Board(as(developerID), env.projectID)
		gt.NoError(t, err).Required()
		beforeOrder := ticketIDs(before[types.TicketStatusTodo])

		changed, err := env.uc.Board.Rebalance(as(developerID), env.projectID)
		gt.NoError(t, err).Required()
		gt.Number(t, changed).Greater(0)

		after2, err := env.uc.Board.Board(as(developerID), env.projectID)
		gt.NoError(t, err).Required()
		column := after2[types.TicketStatusTodo]

		// relative order survives, keys are consecutive integers
		gt.Value(t, ticketIDs(column)).Equal(beforeOrder)
		gt.B(t, sort.SliceIsSorted(column, func(i, j int) bool {
			return column[i].Order < column[j].Order
		})).True()
		for i, ticket := range column {
			gt.Number(t, ticket.Order).Equal(float64(i))
		}

		needs, err = env.uc.Board.NeedsRebalance(as(developerID), env.projectID)
		gt.NoError(t, err).Required()
		gt.B(t, needs).False()
	})

	t.Run("integer boards do not need rebalancing", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.uc.Ticket.Create(as(developerID), env.projectID, usecase.CreateTicketInput{
			Title: "a", Status: types.TicketStatusTodo,
		})
		gt.NoError(t, err).Required()

		needs, err := env.uc.Board.NeedsRebalance(as(developerID), env.projectID)
		gt.NoError(t, err).Required()
		gt.B(t, needs).False()

		changed, err := env.uc.Board.Rebalance(as(developerID), env.projectID)
		gt.NoError(t, err).Required()
		gt.Number(t, changed).Equal(0)
	})
}

func ticketIDs(tickets []*model.Ticket) []types.TicketID {
	ids := make([]types.TicketID, len(tickets))
	for i, t := range tickets {
		ids[i] = t.ID
	}
	return ids
}
