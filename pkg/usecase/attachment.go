package usecase

import (
	"context"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

type AttachmentUseCase struct {
	repo  interfaces.Repository
	blobs interfaces.BlobStore
}

func NewAttachmentUseCase(repo interfaces.Repository, blobs interfaces.BlobStore) *AttachmentUseCase {
	return &AttachmentUseCase{
		repo:  repo,
		blobs: blobs,
	}
}

// Upload stores the file bytes in the blob store and records the metadata.
// The blob goes first so a crash between the steps leaves an unreferenced
// blob, never a dangling record.
func (uc *AttachmentUseCase) Upload(ctx context.Context, projectID types.ProjectID, ticketID types.TicketID, filename string, size int64, r io.Reader) (*model.Attachment, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := authorize(ctx, uc.repo, actor, projectID, model.PermEditTickets); err != nil {
		return nil, err
	}
	if uc.blobs == nil {
		return nil, goerr.Wrap(types.ErrUnavailable, "no blob store configured")
	}
	if strings.TrimSpace(filename) == "" {
		return nil, goerr.Wrap(types.ErrValidationFailed, "filename is required")
	}
	if err := validateIDs(ticketID); err != nil {
		return nil, err
	}

	if _, err := uc.repo.Ticket().Get(ctx, projectID, ticketID); err != nil {
		return nil, err
	}

	id := types.NewAttachmentID()
	blobKey := attachmentBlobKey(projectID, ticketID, id)
	if err := uc.blobs.Put(ctx, blobKey, r); err != nil {
		return nil, goerr.Wrap(err, "failed to store attachment blob", goerr.V("blob_key", blobKey))
	}

	return uc.repo.Attachment().Create(ctx, &model.Attachment{
		ID:         id,
		ProjectID:  projectID,
		TicketID:   ticketID,
		Filename:   filename,
		Size:       size,
		BlobKey:    blobKey,
		UploadedBy: actor,
	})
}

// Open returns the attachment metadata and a reader over its bytes. The
// caller closes the reader.
func (uc *AttachmentUseCase) Open(ctx context.Context, projectID types.ProjectID, id types.AttachmentID) (*model.Attachment, io.ReadCloser, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, nil, err
	}
	if _, err := roleOf(ctx, uc.repo, actor, projectID); err != nil {
		return nil, nil, err
	}
	if uc.blobs == nil {
		return nil, nil, goerr.Wrap(types.ErrUnavailable, "no blob store configured")
	}
	if err := validateIDs(id); err != nil {
		return nil, nil, err
	}

	attachment, err := uc.repo.Attachment().Get(ctx, projectID, id)
	if err != nil {
		return nil, nil, err
	}
	r, err := uc.blobs.Get(ctx, attachment.BlobKey)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to open attachment blob", goerr.V("blob_key", attachment.BlobKey))
	}
	return attachment, r, nil
}

// Delete removes the blob and then the record
func (uc *AttachmentUseCase) Delete(ctx context.Context, projectID types.ProjectID, id types.AttachmentID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	if _, err := authorize(ctx, uc.repo, actor, projectID, model.PermEditTickets); err != nil {
		return err
	}
	if err := validateIDs(id); err != nil {
		return err
	}

	attachment, err := uc.repo.Attachment().Get(ctx, projectID, id)
	if err != nil {
		return err
	}
	if uc.blobs != nil {
		if err := uc.blobs.Delete(ctx, attachment.BlobKey); err != nil {
			return goerr.Wrap(err, "failed to delete attachment blob", goerr.V("blob_key", attachment.BlobKey))
		}
	}
	return uc.repo.Attachment().Delete(ctx, projectID, id)
}

// ListByTicket returns the attachments of a ticket
func (uc *AttachmentUseCase) ListByTicket(ctx context.Context, projectID types.ProjectID, ticketID types.TicketID, cursor string, limit int) ([]*model.Attachment, string, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, "", err
	}
	if _, err := roleOf(ctx, uc.repo, actor, projectID); err != nil {
		return nil, "", err
	}
	if err := validateIDs(ticketID); err != nil {
		return nil, "", err
	}
	return uc.repo.Attachment().ListByTicket(ctx, projectID, ticketID, cursor, limit)
}

func attachmentBlobKey(projectID types.ProjectID, ticketID types.TicketID, id types.AttachmentID) string {
	return "attachments/" + projectID.String() + "/" + ticketID.String() + "/" + id.String()
}
