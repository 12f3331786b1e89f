package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"google.golang.org/api/iterator"
)

const activitiesCollection = "activities"

type activityRepository struct {
	f *Firestore
}

func (r *activityRepository) Append(ctx context.Context, entry *model.ActivityEntry) (*model.ActivityEntry, error) {
	appended := *entry
	if appended.ID == "" {
		appended.ID = types.NewActivityID()
	}
	appended.CreatedAt = time.Now().UTC()
	appended.Details = model.SanitizeDetails(appended.Details)

	docRef := r.f.collection(activitiesCollection).Doc(appended.ID.String())
	if _, err := docRef.Set(ctx, &appended); err != nil {
		return nil, goerr.Wrap(err, "failed to append activity", goerr.V("activity_id", appended.ID))
	}
	return &appended, nil
}

func (r *activityRepository) ListByProject(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.ActivityEntry, string, error) {
	q := r.f.collection(activitiesCollection).
		Where("project_id", "==", projectID.String()).
		OrderBy("created_at", firestore.Desc).
		OrderBy("id", firestore.Desc).
		Limit(pageLimit(limit))
	if cursor != "" {
		afterTime, afterID, err := decodeTimeCursor(cursor)
		if err != nil {
			return nil, "", err
		}
		q = q.StartAfter(afterTime, afterID)
	}
	return r.collect(ctx, q, pageLimit(limit))
}

func (r *activityRepository) ListByTicket(ctx context.Context, projectID types.ProjectID, ticketID types.TicketID, cursor string, limit int) ([]*model.ActivityEntry, string, error) {
	q := r.f.collection(activitiesCollection).
		Where("project_id", "==", projectID.String()).
		Where("ticket_id", "==", ticketID.String()).
		OrderBy("created_at", firestore.Desc).
		OrderBy("id", firestore.Desc).
		Limit(pageLimit(limit))
	if cursor != "" {
		afterTime, afterID, err := decodeTimeCursor(cursor)
		if err != nil {
			return nil, "", err
		}
		q = q.StartAfter(afterTime, afterID)
	}
	return r.collect(ctx, q, pageLimit(limit))
}

func (r *activityRepository) Delete(ctx context.Context, projectID types.ProjectID, id types.ActivityID) error {
	if _, err := r.f.collection(activitiesCollection).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete activity",
			goerr.V("project_id", projectID), goerr.V("activity_id", id))
	}
	return nil
}

func (r *activityRepository) collect(ctx context.Context, q firestore.Query, limit int) ([]*model.ActivityEntry, string, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var entries []*model.ActivityEntry
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to iterate activities")
		}

		var entry model.ActivityEntry
		if err := docSnap.DataTo(&entry); err != nil {
			return nil, "", goerr.Wrap(err, "failed to decode activity", goerr.V("doc_id", docSnap.Ref.ID))
		}
		entries = append(entries, &entry)
	}

	next := ""
	if len(entries) == limit {
		last := entries[len(entries)-1]
		next = encodeTimeCursor(last.CreatedAt, last.ID.String())
	}
	return entries, next, nil
}
