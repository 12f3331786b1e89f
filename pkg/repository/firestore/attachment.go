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

const attachmentsCollection = "attachments"

type attachmentRepository struct {
	f *Firestore
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *model.Attachment) (*model.Attachment, error) {
	created := *attachment
	if created.ID == "" {
		created.ID = types.NewAttachmentID()
	}
	created.CreatedAt = time.Now().UTC()

	docRef := r.f.collection(attachmentsCollection).Doc(created.ID.String())
	if _, err := docRef.Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create attachment", goerr.V("attachment_id", created.ID))
	}
	return &created, nil
}

func (r *attachmentRepository) Get(ctx context.Context, projectID types.ProjectID, id types.AttachmentID) (*model.Attachment, error) {
	docSnap, err := r.f.collection(attachmentsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "attachment not found",
				goerr.V("project_id", projectID), goerr.V("attachment_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get attachment", goerr.V("attachment_id", id))
	}

	var attachment model.Attachment
	if err := docSnap.DataTo(&attachment); err != nil {
		return nil, goerr.Wrap(err, "failed to decode attachment", goerr.V("attachment_id", id))
	}
	if attachment.ProjectID != projectID {
		return nil, goerr.Wrap(types.ErrNotFound, "attachment not found",
			goerr.V("project_id", projectID), goerr.V("attachment_id", id))
	}
	return &attachment, nil
}

func (r *attachmentRepository) Delete(ctx context.Context, projectID types.ProjectID, id types.AttachmentID) error {
	if _, err := r.f.collection(attachmentsCollection).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete attachment",
			goerr.V("project_id", projectID), goerr.V("attachment_id", id))
	}
	return nil
}

func (r *attachmentRepository) ListByTicket(ctx context.Context, projectID types.ProjectID, ticketID types.TicketID, cursor string, limit int) ([]*model.Attachment, string, error) {
	q := r.f.collection(attachmentsCollection).
		Where("project_id", "==", projectID.String()).
		Where("ticket_id", "==", ticketID.String()).
		OrderBy("created_at", firestore.Asc).
		OrderBy("id", firestore.Asc).
		Limit(pageLimit(limit))
	if cursor != "" {
		afterTime, afterID, err := decodeTimeCursor(cursor)
		if err != nil {
			return nil, "", err
		}
		q = q.StartAfter(afterTime, afterID)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var attachments []*model.Attachment
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to iterate attachments", goerr.V("ticket_id", ticketID))
		}

		var attachment model.Attachment
		if err := docSnap.DataTo(&attachment); err != nil {
			return nil, "", goerr.Wrap(err, "failed to decode attachment", goerr.V("doc_id", docSnap.Ref.ID))
		}
		attachments = append(attachments, &attachment)
	}

	next := ""
	if len(attachments) == pageLimit(limit) {
		last := attachments[len(attachments)-1]
		next = encodeTimeCursor(last.CreatedAt, last.ID.String())
	}
	return attachments, next, nil
}
