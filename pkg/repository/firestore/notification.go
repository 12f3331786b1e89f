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

const notificationsCollection = "notifications"

type notificationRepository struct {
	f *Firestore
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) (*model.Notification, error) {
	created := *notification
	if created.ID == "" {
		created.ID = types.NewNotificationID()
	}
	created.CreatedAt = time.Now().UTC()

	docRef := r.f.collection(notificationsCollection).Doc(created.ID.String())
	if _, err := docRef.Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create notification", goerr.V("notification_id", created.ID))
	}
	return &created, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID types.UserID, cursor string, limit int) ([]*model.Notification, string, error) {
	q := r.f.collection(notificationsCollection).
		Where("user_id", "==", userID.String()).
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

func (r *notificationRepository) ListByProject(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.Notification, string, error) {
	q := r.f.collection(notificationsCollection).
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

func (r *notificationRepository) MarkRead(ctx context.Context, userID types.UserID, id types.NotificationID) error {
	docRef := r.f.collection(notificationsCollection).Doc(id.String())

	docSnap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(types.ErrNotFound, "notification not found",
				goerr.V("user_id", userID), goerr.V("notification_id", id))
		}
		return goerr.Wrap(err, "failed to get notification", goerr.V("notification_id", id))
	}

	var notification model.Notification
	if err := docSnap.DataTo(&notification); err != nil {
		return goerr.Wrap(err, "failed to decode notification", goerr.V("notification_id", id))
	}
	if notification.UserID != userID {
		return goerr.Wrap(types.ErrNotFound, "notification not found",
			goerr.V("user_id", userID), goerr.V("notification_id", id))
	}

	if _, err := docRef.Update(ctx, []firestore.Update{
		{Path: "read", Value: true},
	}); err != nil {
		return goerr.Wrap(err, "failed to mark notification read", goerr.V("notification_id", id))
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id types.NotificationID) error {
	if _, err := r.f.collection(notificationsCollection).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete notification", goerr.V("notification_id", id))
	}
	return nil
}

func (r *notificationRepository) collect(ctx context.Context, q firestore.Query, limit int) ([]*model.Notification, string, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var notifications []*model.Notification
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to iterate notifications")
		}

		var notification model.Notification
		if err := docSnap.DataTo(&notification); err != nil {
			return nil, "", goerr.Wrap(err, "failed to decode notification", goerr.V("doc_id", docSnap.Ref.ID))
		}
		notifications = append(notifications, &notification)
	}

	next := ""
	if len(notifications) == limit {
		last := notifications[len(notifications)-1]
		next = encodeTimeCursor(last.CreatedAt, last.ID.String())
	}
	return notifications, next, nil
}
