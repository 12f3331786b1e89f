package interfaces

import (
	"context"

	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
)

// Notifier pushes a notification to the user out of band. The rule logic
// never blocks on delivery; failures are logged and ignored.
type Notifier interface {
	Notify(ctx context.Context, notification *model.Notification) error
}
