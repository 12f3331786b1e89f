package interfaces

import (
	"context"

	"github.com/sprintdeck/sprintdeck/pkg/domain/model/auth"
)

// Repository defines the interface for data persistence. Implementations
// exist for Firestore and for an in-memory store used by tests and dev mode.
type Repository interface {
	Project() ProjectRepository
	Membership() MembershipRepository
	Ticket() TicketRepository
	Comment() CommentRepository
	Sprint() SprintRepository
	Activity() ActivityRepository
	Notification() NotificationRepository
	Attachment() AttachmentRepository

	// Auth token methods
	PutToken(ctx context.Context, token *auth.Token) error
	GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error)
	DeleteToken(ctx context.Context, tokenID auth.TokenID) error

	Close() error
}
