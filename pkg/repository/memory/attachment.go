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

type attachmentRepository struct {
	mu          sync.RWMutex
	attachments map[types.ProjectID]map[types.AttachmentID]*model.Attachment
}

func newAttachmentRepository() *attachmentRepository {
	return &attachmentRepository{
		attachments: make(map[types.ProjectID]map[types.AttachmentID]*model.Attachment),
	}
}

func copyAttachment(a *model.Attachment) *model.Attachment {
	copied := *a
	return &copied
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *model.Attachment) (*model.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.attachments[attachment.ProjectID]; !exists {
		r.attachments[attachment.ProjectID] = make(map[types.AttachmentID]*model.Attachment)
	}

	created := copyAttachment(attachment)
	if created.ID == "" {
		created.ID = types.NewAttachmentID()
	}
	created.CreatedAt = time.Now().UTC()

	r.attachments[attachment.ProjectID][created.ID] = created
	return copyAttachment(created), nil
}

func (r *attachmentRepository) Get(ctx context.Context, projectID types.ProjectID, id types.AttachmentID) (*model.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, exists := r.attachments[projectID]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "attachment not found",
			goerr.V("project_id", projectID), goerr.V("attachment_id", id))
	}
	attachment, exists := bucket[id]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "attachment not found",
			goerr.V("project_id", projectID), goerr.V("attachment_id", id))
	}
	return copyAttachment(attachment), nil
}

func (r *attachmentRepository) Delete(ctx context.Context, projectID types.ProjectID, id types.AttachmentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bucket, exists := r.attachments[projectID]; exists {
		delete(bucket, id)
	}
	return nil
}

func (r *attachmentRepository) ListByTicket(ctx context.Context, projectID types.ProjectID, ticketID types.TicketID, cursor string, limit int) ([]*model.Attachment, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*model.Attachment
	for _, a := range r.attachments[projectID] {
		if a.TicketID == ticketID {
			all = append(all, copyAttachment(a))
		}
	}
	key := func(a *model.Attachment) string {
		return ascKey(a.CreatedAt, string(a.ID))
	}
	sort.Slice(all, func(i, j int) bool {
		return key(all[i]) < key(all[j])
	})

	page, next := paginate(all, cursor, limit, key)
	return page, next, nil
}
