package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
)

// Firestore is the production Repository implementation backed by a
// Firestore document store.
type Firestore struct {
	client       *firestore.Client
	project      *projectRepository
	membership   *membershipRepository
	ticket       *ticketRepository
	comment      *commentRepository
	sprint       *sprintRepository
	activity     *activityRepository
	notification *notificationRepository
	attachment   *attachmentRepository
	prefix       string
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces every collection, used to isolate test
// runs against a shared Firestore project.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.prefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{client: client}
	for _, opt := range opts {
		opt(f)
	}

	f.project = &projectRepository{f: f}
	f.membership = &membershipRepository{f: f}
	f.ticket = &ticketRepository{f: f}
	f.comment = &commentRepository{f: f}
	f.sprint = &sprintRepository{f: f}
	f.activity = &activityRepository{f: f}
	f.notification = &notificationRepository{f: f}
	f.attachment = &attachmentRepository{f: f}

	return f, nil
}

// collection resolves a collection name under the optional prefix
func (f *Firestore) collection(name string) *firestore.CollectionRef {
	if f.prefix != "" {
		name = f.prefix + "_" + name
	}
	return f.client.Collection(name)
}

func (f *Firestore) Project() interfaces.ProjectRepository {
	return f.project
}

func (f *Firestore) Membership() interfaces.MembershipRepository {
	return f.membership
}

func (f *Firestore) Ticket() interfaces.TicketRepository {
	return f.ticket
}

func (f *Firestore) Comment() interfaces.CommentRepository {
	return f.comment
}

func (f *Firestore) Sprint() interfaces.SprintRepository {
	return f.sprint
}

func (f *Firestore) Activity() interfaces.ActivityRepository {
	return f.activity
}

func (f *Firestore) Notification() interfaces.NotificationRepository {
	return f.notification
}

func (f *Firestore) Attachment() interfaces.AttachmentRepository {
	return f.attachment
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
