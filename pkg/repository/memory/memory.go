package memory

import (
	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is an in-memory Repository implementation used by tests and by the
// development mode of the server. Semantics mirror the Firestore backend:
// copy-in/copy-out, idempotent deletes, cursor pagination.
type Memory struct {
	project      *projectRepository
	membership   *membershipRepository
	ticket       *ticketRepository
	comment      *commentRepository
	sprint       *sprintRepository
	activity     *activityRepository
	notification *notificationRepository
	attachment   *attachmentRepository
	tokens       *tokenStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		project:      newProjectRepository(),
		membership:   newMembershipRepository(),
		ticket:       newTicketRepository(),
		comment:      newCommentRepository(),
		sprint:       newSprintRepository(),
		activity:     newActivityRepository(),
		notification: newNotificationRepository(),
		attachment:   newAttachmentRepository(),
		tokens:       newTokenStore(),
	}
}

func (m *Memory) Project() interfaces.ProjectRepository {
	return m.project
}

func (m *Memory) Membership() interfaces.MembershipRepository {
	return m.membership
}

func (m *Memory) Ticket() interfaces.TicketRepository {
	return m.ticket
}

func (m *Memory) Comment() interfaces.CommentRepository {
	return m.comment
}

func (m *Memory) Sprint() interfaces.SprintRepository {
	return m.sprint
}

func (m *Memory) Activity() interfaces.ActivityRepository {
	return m.activity
}

func (m *Memory) Notification() interfaces.NotificationRepository {
	return m.notification
}

func (m *Memory) Attachment() interfaces.AttachmentRepository {
	return m.attachment
}

func (m *Memory) Close() error {
	return nil
}
