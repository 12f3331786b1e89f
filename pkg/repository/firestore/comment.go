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

const commentsCollection = "comments"

type commentRepository struct {
	f *Firestore
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	created := *comment
	if created.ID == "" {
		created.ID = types.NewCommentID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.f.collection(commentsCollection).Doc(created.ID.String())
	if _, err := docRef.Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create comment", goerr.V("comment_id", created.ID))
	}
	return &created, nil
}

func (r *commentRepository) Get(ctx context.Context, projectID types.ProjectID, id types.CommentID) (*model.Comment, error) {
	docSnap, err := r.f.collection(commentsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "comment not found",
				goerr.V("project_id", projectID), goerr.V("comment_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get comment", goerr.V("comment_id", id))
	}

	var comment model.Comment
	if err := docSnap.DataTo(&comment); err != nil {
		return nil, goerr.Wrap(err, "failed to decode comment", goerr.V("comment_id", id))
	}
	if comment.ProjectID != projectID {
		return nil, goerr.Wrap(types.ErrNotFound, "comment not found",
			goerr.V("project_id", projectID), goerr.V("comment_id", id))
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	stored, err := r.Get(ctx, comment.ProjectID, comment.ID)
	if err != nil {
		return nil, err
	}

	updated := *comment
	updated.TicketID = stored.TicketID
	updated.ParentID = stored.ParentID
	updated.AuthorID = stored.AuthorID
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	docRef := r.f.collection(commentsCollection).Doc(comment.ID.String())
	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update comment", goerr.V("comment_id", comment.ID))
	}
	return &updated, nil
}

func (r *commentRepository) Delete(ctx context.Context, projectID types.ProjectID, id types.CommentID) error {
	if _, err := r.f.collection(commentsCollection).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete comment",
			goerr.V("project_id", projectID), goerr.V("comment_id", id))
	}
	return nil
}

func (r *commentRepository) ListByTicket(ctx context.Context, projectID types.ProjectID, ticketID types.TicketID, cursor string, limit int) ([]*model.Comment, string, error) {
	q := r.f.collection(commentsCollection).
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

	comments, err := r.collect(ctx, q)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(comments) == pageLimit(limit) {
		last := comments[len(comments)-1]
		next = encodeTimeCursor(last.CreatedAt, last.ID.String())
	}
	return comments, next, nil
}

func (r *commentRepository) ListChildren(ctx context.Context, projectID types.ProjectID, parentID types.CommentID) ([]*model.Comment, error) {
	q := r.f.collection(commentsCollection).
		Where("project_id", "==", projectID.String()).
		Where("parent_id", "==", parentID.String()).
		OrderBy("created_at", firestore.Asc)

	return r.collect(ctx, q)
}

func (r *commentRepository) collect(ctx context.Context, q firestore.Query) ([]*model.Comment, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var comments []*model.Comment
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate comments")
		}

		var comment model.Comment
		if err := docSnap.DataTo(&comment); err != nil {
			return nil, goerr.Wrap(err, "failed to decode comment", goerr.V("doc_id", docSnap.Ref.ID))
		}
		comments = append(comments, &comment)
	}
	return comments, nil
}
