package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

type CommentUseCase struct {
	repo     interfaces.Repository
	notifier interfaces.Notifier
}

func NewCommentUseCase(repo interfaces.Repository, notifier interfaces.Notifier) *CommentUseCase {
	return &CommentUseCase{
		repo:     repo,
		notifier: notifier,
	}
}

// Add writes a comment on a ticket. A reply's parent must be a comment on
// the same ticket. The ticket reporter, the assignee, and the parent author
// are notified, deduplicated and excluding the actor.
func (uc *CommentUseCase) Add(ctx context.Context, projectID types.ProjectID, ticketID types.TicketID, parentID types.CommentID, body string) (*model.Comment, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := authorize(ctx, uc.repo, actor, projectID, model.PermComment); err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, goerr.Wrap(types.ErrValidationFailed, "comment body is required")
	}
	if err := validateIDs(ticketID); err != nil {
		return nil, err
	}

	ticket, err := uc.repo.Ticket().Get(ctx, projectID, ticketID)
	if err != nil {
		return nil, err
	}

	var parent *model.Comment
	if parentID != "" {
		if err := validateIDs(parentID); err != nil {
			return nil, err
		}
		parent, err = uc.repo.Comment().Get(ctx, projectID, parentID)
		if err != nil {
			return nil, err
		}
		if parent.TicketID != ticketID {
			return nil, goerr.Wrap(types.ErrValidationFailed, "parent comment belongs to another ticket",
				goerr.V("parent_id", parentID),
				goerr.V("parent_ticket_id", parent.TicketID),
				goerr.V("ticket_id", ticketID))
		}
	}

	created, err := uc.repo.Comment().Create(ctx, &model.Comment{
		TicketID:  ticketID,
		ProjectID: projectID,
		ParentID:  parentID,
		AuthorID:  actor,
		Body:      body,
	})
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.Activity().Append(ctx, &model.ActivityEntry{
		ProjectID: projectID,
		TicketID:  ticketID,
		UserID:    actor,
		Action:    types.ActivityCommentAdded,
	}); err != nil {
		return nil, err
	}

	uc.notifyComment(ctx, ticket, created, parent, actor)
	return created, nil
}

// Edit changes the body of a comment. Authors edit their own comments;
// managers and admins may edit anyone's.
func (uc *CommentUseCase) Edit(ctx context.Context, projectID types.ProjectID, id types.CommentID, body string) (*model.Comment, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	role, err := roleOf(ctx, uc.repo, actor, projectID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, goerr.Wrap(types.ErrValidationFailed, "comment body is required")
	}
	if err := validateIDs(id); err != nil {
		return nil, err
	}

	comment, err := uc.repo.Comment().Get(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != actor && !model.PermissionsOf(role).Has(model.PermDeleteTickets) {
		return nil, goerr.Wrap(types.ErrInsufficientRole, "only the author or a manager may edit a comment",
			goerr.V("comment_id", id), goerr.V("actor_id", actor))
	}

	comment.Body = body
	updated, err := uc.repo.Comment().Update(ctx, comment)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.Activity().Append(ctx, &model.ActivityEntry{
		ProjectID: projectID,
		TicketID:  comment.TicketID,
		UserID:    actor,
		Action:    types.ActivityCommentEdited,
	}); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a comment together with its reply subtree, children before
// parents. Authors delete their own comments; managers and admins anyone's.
func (uc *CommentUseCase) Delete(ctx context.Context, projectID types.ProjectID, id types.CommentID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	role, err := roleOf(ctx, uc.repo, actor, projectID)
	if err != nil {
		return err
	}
	if err := validateIDs(id); err != nil {
		return err
	}

	comment, err := uc.repo.Comment().Get(ctx, projectID, id)
	if err != nil {
		return err
	}
	if comment.AuthorID != actor && !model.PermissionsOf(role).Has(model.PermDeleteTickets) {
		return goerr.Wrap(types.ErrInsufficientRole, "only the author or a manager may delete a comment",
			goerr.V("comment_id", id), goerr.V("actor_id", actor))
	}

	deleted, err := deleteCommentTree(ctx, uc.repo, projectID, id)
	if err != nil {
		return err
	}

	if _, err := uc.repo.Activity().Append(ctx, &model.ActivityEntry{
		ProjectID: projectID,
		TicketID:  comment.TicketID,
		UserID:    actor,
		Action:    types.ActivityCommentDeleted,
		Details:   map[string]string{"deleted": fmt.Sprintf("%d", deleted)},
	}); err != nil {
		return err
	}
	return nil
}

// ListByTicket returns the comments of a ticket, oldest first
func (uc *CommentUseCase) ListByTicket(ctx context.Context, projectID types.ProjectID, ticketID types.TicketID, cursor string, limit int) ([]*model.Comment, string, error) {
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
	return uc.repo.Comment().ListByTicket(ctx, projectID, ticketID, cursor, limit)
}

func (uc *CommentUseCase) notifyComment(ctx context.Context, ticket *model.Ticket, comment *model.Comment, parent *model.Comment, actor types.UserID) {
	recipients := map[types.UserID]types.NotificationKind{}
	if ticket.ReporterID != "" {
		recipients[ticket.ReporterID] = types.NotificationCommentAdded
	}
	if ticket.AssigneeID != "" {
		recipients[ticket.AssigneeID] = types.NotificationCommentAdded
	}
	// a reply notification wins over the plain comment one
	if parent != nil {
		recipients[parent.AuthorID] = types.NotificationCommentReply
	}
	delete(recipients, actor)

	for userID, kind := range recipients {
		notify(ctx, uc.repo, uc.notifier, &model.Notification{
			UserID:    userID,
			Kind:      kind,
			ProjectID: ticket.ProjectID,
			TicketID:  ticket.ID,
			ActorID:   actor,
			Message:   fmt.Sprintf("new comment on ticket #%d: %s", ticket.Number, ticket.Title),
		})
	}
}
