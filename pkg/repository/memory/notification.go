package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

type notificationRepository struct {
	mu            sync.RWMutex
	notifications map[types.NotificationID]*model.Notification
}

func newNotificationRepository() *notificationRepository {
	return &notificationRepository{
		notifications: make(map[types.NotificationID]*model.Notification),
	}
}

func copyNotification(n *model.Notification) *model.Notification {
	copied := *n
	return &copied
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) (*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyNotification(notification)
	if created.ID == "" {
		created.ID = types.NewNotificationID()
	}
	created.CreatedAt = time.Now().UTC()

	r.notifications[created.ID] = created
	return copyNotification(created), nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID types.UserID, cursor string, limit int) ([]*model.Notification, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*model.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			all = append(all, copyNotification(n))
		}
	}
	return sortAndPaginateNotifications(all, cursor, limit)
}

func (r *notificationRepository) ListByProject(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.Notification, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*model.Notification
	for _, n := range r.notifications {
		if n.ProjectID == projectID {
			all = append(all, copyNotification(n))
		}
	}
	return sortAndPaginateNotifications(all, cursor, limit)
}

func sortAndPaginateNotifications(all []*model.Notification, cursor string, limit int) ([]*model.Notification, string, error) {
	key := func(n *model.Notification) string {
		return descKey(n.CreatedAt, string(n.ID))
	}
	sort.Slice(all, func(i, j int) bool {
		return key(all[i]) < key(all[j])
	})
	page, next := paginate(all, cursor, limit, key)
	return page, next, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID types.UserID, id types.NotificationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, exists := r.notifications[id]
	if !exists || n.UserID != userID {
		return goerr.Wrap(types.ErrNotFound, "notification not found",
			goerr.V("notification_id", id), goerr.V("user_id", userID))
	}
	n.Read = true
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id types.NotificationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.notifications, id)
	return nil
}
