package usecase

import (
	"context"

	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/utils/async"
	"github.com/sprintdeck/sprintdeck/pkg/utils/errutil"
)

type NotificationUseCase struct {
	repo interfaces.Repository
}

func NewNotificationUseCase(repo interfaces.Repository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo}
}

// List returns the actor's inbox, newest first
func (uc *NotificationUseCase) List(ctx context.Context, cursor string, limit int) ([]*model.Notification, string, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, "", err
	}
	return uc.repo.Notification().ListByUser(ctx, actor, cursor, limit)
}

// MarkRead flags one of the actor's notifications as read
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id types.NotificationID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	return uc.repo.Notification().MarkRead(ctx, actor, id)
}

// notify persists a notification and pushes it when a notifier is
// configured. Both steps are best-effort: a user losing one inbox entry is
// preferable to failing the mutation that produced it.
func notify(ctx context.Context, repo interfaces.Repository, notifier interfaces.Notifier, notification *model.Notification) {
	stored, err := repo.Notification().Create(ctx, notification)
	if err != nil {
		errutil.Handle(ctx, err, "failed to store notification")
		return
	}
	if notifier != nil {
		if err := notifier.Notify(ctx, stored); err != nil {
			errutil.Handle(ctx, err, "failed to push notification")
		}
	}
}

// notifyAsync delivers the notification off the request goroutine
func notifyAsync(ctx context.Context, repo interfaces.Repository, notifier interfaces.Notifier, notification *model.Notification) {
	async.Dispatch(ctx, func(ctx context.Context) error {
		notify(ctx, repo, notifier, notification)
		return nil
	})
}
