package interfaces

import (
	"context"

	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// NotificationRepository defines the interface for the persisted inbox
type NotificationRepository interface {
	// Create stores a notification
	Create(ctx context.Context, notification *model.Notification) (*model.Notification, error)

	// ListByUser retrieves a user's notifications, paginated, newest first
	ListByUser(ctx context.Context, userID types.UserID, cursor string, limit int) ([]*model.Notification, string, error)

	// ListByProject retrieves notifications belonging to a project,
	// paginated. Used by the project deletion cascade.
	ListByProject(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.Notification, string, error)

	// MarkRead flags a notification as read
	MarkRead(ctx context.Context, userID types.UserID, id types.NotificationID) error

	// Delete removes a notification. Idempotent.
	Delete(ctx context.Context, id types.NotificationID) error
}
