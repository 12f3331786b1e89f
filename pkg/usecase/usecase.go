package usecase

import (
	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
)

type UseCases struct {
	repo     interfaces.Repository
	notifier interfaces.Notifier
	groups   interfaces.IdentityGroup
	blobs    interfaces.BlobStore

	Project      *ProjectUseCase
	Member       *MemberUseCase
	Ticket       *TicketUseCase
	Comment      *CommentUseCase
	Sprint       *SprintUseCase
	Board        *BoardUseCase
	Attachment   *AttachmentUseCase
	Notification *NotificationUseCase
	Auth         *AuthUseCase
}

type Option func(*UseCases)

// WithNotifier enables push delivery of notifications. Without it
// notifications are only persisted to the inbox.
func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

// WithIdentityGroup mirrors project membership into an external group
// service, best-effort.
func WithIdentityGroup(g interfaces.IdentityGroup) Option {
	return func(uc *UseCases) {
		uc.groups = g
	}
}

// WithBlobStore enables ticket attachments
func WithBlobStore(b interfaces.BlobStore) Option {
	return func(uc *UseCases) {
		uc.blobs = b
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Project = NewProjectUseCase(repo, uc.groups, uc.blobs)
	uc.Member = NewMemberUseCase(repo, uc.notifier, uc.groups)
	uc.Ticket = NewTicketUseCase(repo, uc.notifier, uc.blobs)
	uc.Comment = NewCommentUseCase(repo, uc.notifier)
	uc.Sprint = NewSprintUseCase(repo)
	uc.Board = NewBoardUseCase(repo)
	uc.Attachment = NewAttachmentUseCase(repo, uc.blobs)
	uc.Notification = NewNotificationUseCase(repo)
	uc.Auth = NewAuthUseCase(repo)

	return uc
}
