package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

type ticketRepository struct {
	mu         sync.RWMutex
	tickets    map[types.ProjectID]map[types.TicketID]*model.Ticket
	nextNumber map[types.ProjectID]int64
}

func newTicketRepository() *ticketRepository {
	return &ticketRepository{
		tickets:    make(map[types.ProjectID]map[types.TicketID]*model.Ticket),
		nextNumber: make(map[types.ProjectID]int64),
	}
}

func copyTicket(t *model.Ticket) *model.Ticket {
	copied := *t
	return &copied
}

func (r *ticketRepository) ensureProject(projectID types.ProjectID) {
	if _, exists := r.tickets[projectID]; !exists {
		r.tickets[projectID] = make(map[types.TicketID]*model.Ticket)
		r.nextNumber[projectID] = 1
	}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureProject(ticket.ProjectID)

	created := copyTicket(ticket)
	if created.ID == "" {
		created.ID = types.NewTicketID()
	}
	created.Number = r.nextNumber[ticket.ProjectID]
	r.nextNumber[ticket.ProjectID]++

	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.tickets[ticket.ProjectID][created.ID] = created
	return copyTicket(created), nil
}

func (r *ticketRepository) Get(ctx context.Context, projectID types.ProjectID, id types.TicketID) (*model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.get(projectID, id)
}

func (r *ticketRepository) get(projectID types.ProjectID, id types.TicketID) (*model.Ticket, error) {
	bucket, exists := r.tickets[projectID]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "ticket not found",
			goerr.V("project_id", projectID), goerr.V("ticket_id", id))
	}
	ticket, exists := bucket[id]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "ticket not found",
			goerr.V("project_id", projectID), goerr.V("ticket_id", id))
	}
	return copyTicket(ticket), nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.update(ticket)
}

func (r *ticketRepository) update(ticket *model.Ticket) (*model.Ticket, error) {
	stored, err := r.get(ticket.ProjectID, ticket.ID)
	if err != nil {
		return nil, err
	}

	updated := copyTicket(ticket)
	updated.Number = stored.Number
	updated.ReporterID = stored.ReporterID
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.tickets[ticket.ProjectID][ticket.ID] = updated
	return copyTicket(updated), nil
}

func (r *ticketRepository) UpdateIfUnmodified(ctx context.Context, ticket *model.Ticket, lastSeen time.Time) (*model.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.get(ticket.ProjectID, ticket.ID)
	if err != nil {
		return nil, err
	}
	if !stored.UpdatedAt.Equal(lastSeen) {
		return nil, goerr.Wrap(types.ErrConflict, "ticket was modified concurrently",
			goerr.V("ticket_id", ticket.ID),
			goerr.V("expected_version", lastSeen),
			goerr.V("stored_version", stored.UpdatedAt))
	}
	return r.update(ticket)
}

func (r *ticketRepository) Delete(ctx context.Context, projectID types.ProjectID, id types.TicketID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bucket, exists := r.tickets[projectID]; exists {
		delete(bucket, id)
	}
	return nil
}

func (r *ticketRepository) ListByProject(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.Ticket, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.tickets[projectID]
	all := make([]*model.Ticket, 0, len(bucket))
	for _, t := range bucket {
		all = append(all, copyTicket(t))
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Number < all[j].Number
	})

	page, next := paginate(all, cursor, limit, ticketCursorKey)
	return page, next, nil
}

// ticketCursorKey orders ticket pages by the per-project number
func ticketCursorKey(t *model.Ticket) string {
	return fmt.Sprintf("%019d", t.Number)
}

func (r *ticketRepository) ListByStatus(ctx context.Context, projectID types.ProjectID, status types.TicketStatus) ([]*model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Ticket
	for _, t := range r.tickets[projectID] {
		if t.Status == status {
			result = append(result, copyTicket(t))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].Number < result[j].Number
	})
	return result, nil
}

func (r *ticketRepository) ListBySprint(ctx context.Context, projectID types.ProjectID, sprintID types.SprintID, cursor string, limit int) ([]*model.Ticket, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*model.Ticket
	for _, t := range r.tickets[projectID] {
		if t.SprintID == sprintID {
			all = append(all, copyTicket(t))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Number < all[j].Number
	})

	page, next := paginate(all, cursor, limit, ticketCursorKey)
	return page, next, nil
}
