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

type commentRepository struct {
	mu       sync.RWMutex
	comments map[types.ProjectID]map[types.CommentID]*model.Comment
}

func newCommentRepository() *commentRepository {
	return &commentRepository{
		comments: make(map[types.ProjectID]map[types.CommentID]*model.Comment),
	}
}

func copyComment(c *model.Comment) *model.Comment {
	copied := *c
	return &copied
}

func (r *commentRepository) ensureProject(projectID types.ProjectID) {
	if _, exists := r.comments[projectID]; !exists {
		r.comments[projectID] = make(map[types.CommentID]*model.Comment)
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureProject(comment.ProjectID)

	created := copyComment(comment)
	if created.ID == "" {
		created.ID = types.NewCommentID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.comments[comment.ProjectID][created.ID] = created
	return copyComment(created), nil
}

func (r *commentRepository) Get(ctx context.Context, projectID types.ProjectID, id types.CommentID) (*model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, exists := r.comments[projectID]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "comment not found",
			goerr.V("project_id", projectID), goerr.V("comment_id", id))
	}
	comment, exists := bucket[id]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "comment not found",
			goerr.V("project_id", projectID), goerr.V("comment_id", id))
	}
	return copyComment(comment), nil
}

func (r *commentRepository) Update(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, exists := r.comments[comment.ProjectID]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "comment not found", goerr.V("comment_id", comment.ID))
	}
	stored, exists := bucket[comment.ID]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "comment not found", goerr.V("comment_id", comment.ID))
	}

	updated := copyComment(comment)
	updated.TicketID = stored.TicketID
	updated.ParentID = stored.ParentID
	updated.AuthorID = stored.AuthorID
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	bucket[comment.ID] = updated
	return copyComment(updated), nil
}

func (r *commentRepository) Delete(ctx context.Context, projectID types.ProjectID, id types.CommentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bucket, exists := r.comments[projectID]; exists {
		delete(bucket, id)
	}
	return nil
}

func (r *commentRepository) ListByTicket(ctx context.Context, projectID types.ProjectID, ticketID types.TicketID, cursor string, limit int) ([]*model.Comment, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*model.Comment
	for _, c := range r.comments[projectID] {
		if c.TicketID == ticketID {
			all = append(all, copyComment(c))
		}
	}
	key := func(c *model.Comment) string {
		return ascKey(c.CreatedAt, string(c.ID))
	}
	sort.Slice(all, func(i, j int) bool {
		return key(all[i]) < key(all[j])
	})

	page, next := paginate(all, cursor, limit, key)
	return page, next, nil
}

func (r *commentRepository) ListChildren(ctx context.Context, projectID types.ProjectID, parentID types.CommentID) ([]*model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Comment
	for _, c := range r.comments[projectID] {
		if c.ParentID == parentID {
			result = append(result, copyComment(c))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return ascKey(result[i].CreatedAt, string(result[i].ID)) < ascKey(result[j].CreatedAt, string(result[j].ID))
	})
	return result, nil
}
