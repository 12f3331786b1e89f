package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ticketsCollection  = "tickets"
	countersCollection = "counters"
)

type ticketRepository struct {
	f *Firestore
}

// nextNumber atomically increments the per-project ticket counter
func (r *ticketRepository) nextNumber(ctx context.Context, projectID types.ProjectID) (int64, error) {
	counterRef := r.f.collection(countersCollection).Doc("tickets_" + projectID.String())

	var next int64
	err := r.f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				next = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": next,
				})
			}
			return goerr.Wrap(err, "failed to get ticket counter")
		}

		value, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}
		current, ok := value.(int64)
		if !ok {
			return goerr.New("counter value is not of type int64", goerr.V("value", value))
		}
		next = current + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: next},
		})
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to increment ticket counter", goerr.V("project_id", projectID))
	}
	return next, nil
}

func (r *ticketRepository) Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	number, err := r.nextNumber(ctx, ticket.ProjectID)
	if err != nil {
		return nil, err
	}

	created := *ticket
	if created.ID == "" {
		created.ID = types.NewTicketID()
	}
	created.Number = number
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.f.collection(ticketsCollection).Doc(created.ID.String())
	if _, err := docRef.Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create ticket", goerr.V("ticket_id", created.ID))
	}
	return &created, nil
}

func (r *ticketRepository) Get(ctx context.Context, projectID types.ProjectID, id types.TicketID) (*model.Ticket, error) {
	docSnap, err := r.f.collection(ticketsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "ticket not found",
				goerr.V("project_id", projectID), goerr.V("ticket_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get ticket", goerr.V("ticket_id", id))
	}

	var ticket model.Ticket
	if err := docSnap.DataTo(&ticket); err != nil {
		return nil, goerr.Wrap(err, "failed to decode ticket", goerr.V("ticket_id", id))
	}
	// tickets live in a flat collection; enforce the tenant boundary
	if ticket.ProjectID != projectID {
		return nil, goerr.Wrap(types.ErrNotFound, "ticket not found",
			goerr.V("project_id", projectID), goerr.V("ticket_id", id))
	}
	return &ticket, nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	stored, err := r.Get(ctx, ticket.ProjectID, ticket.ID)
	if err != nil {
		return nil, err
	}

	updated := *ticket
	updated.Number = stored.Number
	updated.ReporterID = stored.ReporterID
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	docRef := r.f.collection(ticketsCollection).Doc(ticket.ID.String())
	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update ticket", goerr.V("ticket_id", ticket.ID))
	}
	return &updated, nil
}

// UpdateIfUnmodified performs a version-checked write: the stored UpdatedAt
// is compared against lastSeen inside a transaction so a concurrent edit
// surfaces as types.ErrConflict instead of being silently overwritten.
func (r *ticketRepository) UpdateIfUnmodified(ctx context.Context, ticket *model.Ticket, lastSeen time.Time) (*model.Ticket, error) {
	docRef := r.f.collection(ticketsCollection).Doc(ticket.ID.String())

	var updated model.Ticket
	err := r.f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(types.ErrNotFound, "ticket not found", goerr.V("ticket_id", ticket.ID))
			}
			return goerr.Wrap(err, "failed to get ticket", goerr.V("ticket_id", ticket.ID))
		}

		var stored model.Ticket
		if err := doc.DataTo(&stored); err != nil {
			return goerr.Wrap(err, "failed to decode ticket", goerr.V("ticket_id", ticket.ID))
		}
		if stored.ProjectID != ticket.ProjectID {
			return goerr.Wrap(types.ErrNotFound, "ticket not found",
				goerr.V("project_id", ticket.ProjectID), goerr.V("ticket_id", ticket.ID))
		}
		if !stored.UpdatedAt.Equal(lastSeen) {
			return goerr.Wrap(types.ErrConflict, "ticket was modified concurrently",
				goerr.V("ticket_id", ticket.ID),
				goerr.V("expected_version", lastSeen),
				goerr.V("stored_version", stored.UpdatedAt))
		}

		updated = *ticket
		updated.Number = stored.Number
		updated.ReporterID = stored.ReporterID
		updated.CreatedAt = stored.CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		return tx.Set(docRef, &updated)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *ticketRepository) Delete(ctx context.Context, projectID types.ProjectID, id types.TicketID) error {
	if _, err := r.f.collection(ticketsCollection).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete ticket",
			goerr.V("project_id", projectID), goerr.V("ticket_id", id))
	}
	return nil
}

func (r *ticketRepository) ListByProject(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.Ticket, string, error) {
	q := r.f.collection(ticketsCollection).
		Where("project_id", "==", projectID.String()).
		OrderBy("number", firestore.Asc).
		Limit(pageLimit(limit))
	if cursor != "" {
		after, err := decodeNumberCursor(cursor)
		if err != nil {
			return nil, "", err
		}
		q = q.StartAfter(after)
	}

	tickets, err := r.collect(ctx, q)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(tickets) == pageLimit(limit) {
		next = encodeNumberCursor(tickets[len(tickets)-1].Number)
	}
	return tickets, next, nil
}

func (r *ticketRepository) ListByStatus(ctx context.Context, projectID types.ProjectID, status types.TicketStatus) ([]*model.Ticket, error) {
	q := r.f.collection(ticketsCollection).
		Where("project_id", "==", projectID.String()).
		Where("status", "==", status.String()).
		OrderBy("order", firestore.Asc)

	return r.collect(ctx, q)
}

func (r *ticketRepository) ListBySprint(ctx context.Context, projectID types.ProjectID, sprintID types.SprintID, cursor string, limit int) ([]*model.Ticket, string, error) {
	q := r.f.collection(ticketsCollection).
		Where("project_id", "==", projectID.String()).
		Where("sprint_id", "==", sprintID.String()).
		OrderBy("number", firestore.Asc).
		Limit(pageLimit(limit))
	if cursor != "" {
		after, err := decodeNumberCursor(cursor)
		if err != nil {
			return nil, "", err
		}
		q = q.StartAfter(after)
	}

	tickets, err := r.collect(ctx, q)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(tickets) == pageLimit(limit) {
		next = encodeNumberCursor(tickets[len(tickets)-1].Number)
	}
	return tickets, next, nil
}

func (r *ticketRepository) collect(ctx context.Context, q firestore.Query) ([]*model.Ticket, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var tickets []*model.Ticket
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate tickets")
		}

		var ticket model.Ticket
		if err := docSnap.DataTo(&ticket); err != nil {
			return nil, goerr.Wrap(err, "failed to decode ticket", goerr.V("doc_id", docSnap.Ref.ID))
		}
		tickets = append(tickets, &ticket)
	}
	return tickets, nil
}
