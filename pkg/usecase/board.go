package usecase

import (
	"context"

	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/utils/logging"
	"golang.org/x/sync/singleflight"
)

type BoardUseCase struct {
	repo      interfaces.Repository
	rebalance singleflight.Group
}

func NewBoardUseCase(repo interfaces.Repository) *BoardUseCase {
	return &BoardUseCase{repo: repo}
}

// Board returns the whole board grouped by status column, each column in
// ascending order-key order.
func (uc *BoardUseCase) Board(ctx context.Context, projectID types.ProjectID) (map[types.TicketStatus][]*model.Ticket, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := roleOf(ctx, uc.repo, actor, projectID); err != nil {
		return nil, err
	}

	board := make(map[types.TicketStatus][]*model.Ticket, len(types.AllTicketStatuses()))
	for _, status := range types.AllTicketStatuses() {
		column, err := uc.repo.Ticket().ListByStatus(ctx, projectID, status)
		if err != nil {
			return nil, err
		}
		board[status] = column
	}
	return board, nil
}

// NeedsRebalance reports whether any column of the project has consumed
// more fractional precision than the recommended threshold.
func (uc *BoardUseCase) NeedsRebalance(ctx context.Context, projectID types.ProjectID) (bool, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return false, err
	}
	if _, err := roleOf(ctx, uc.repo, actor, projectID); err != nil {
		return false, err
	}

	tickets, err := drainTickets(ctx, uc.repo, projectID)
	if err != nil {
		return false, err
	}
	orders := make([]float64, len(tickets))
	for i, t := range tickets {
		orders[i] = t.Order
	}
	return model.NeedsRebalance(orders), nil
}

// Rebalance reassigns consecutive integer order keys to every column,
// preserving the relative order of every ticket. Concurrent requests for
// the same project collapse into one run; the caller count of the winning
// run is irrelevant, so all callers share its result.
func (uc *BoardUseCase) Rebalance(ctx context.Context, projectID types.ProjectID) (int, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return 0, err
	}
	if _, err := authorize(ctx, uc.repo, actor, projectID, model.PermMoveTickets); err != nil {
		return 0, err
	}

	result, err, _ := uc.rebalance.Do(projectID.String(), func() (any, error) {
		return uc.rebalanceProject(ctx, projectID)
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

func (uc *BoardUseCase) rebalanceProject(ctx context.Context, projectID types.ProjectID) (int, error) {
	tickets, err := drainTickets(ctx, uc.repo, projectID)
	if err != nil {
		return 0, err
	}

	fresh := model.Rebalance(tickets)
	changed := 0
	for _, ticket := range tickets {
		order, ok := fresh[ticket.ID]
		if !ok || ticket.Order == order {
			continue
		}
		ticket.Order = order
		if _, err := uc.repo.Ticket().Update(ctx, ticket); err != nil {
			return changed, err
		}
		changed++
	}

	logging.From(ctx).Info("board rebalanced",
		"project_id", projectID,
		"tickets", len(tickets),
		"changed", changed)
	return changed, nil
}
