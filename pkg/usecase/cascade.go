package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// maxCommentDepth bounds comment-tree traversal. The write path only allows
// a parent on the same ticket, so a cycle cannot be created through the API;
// the cap exists so corrupted data cannot hang a deletion.
const maxCommentDepth = 100

// deleteCommentTree removes a comment and its whole reply subtree in
// post-order: children always go before their parent, so an interrupted run
// never leaves a reply pointing at a deleted parent. Missing rows are
// skipped, which makes retries safe.
func deleteCommentTree(ctx context.Context, repo interfaces.Repository, projectID types.ProjectID, commentID types.CommentID) (int, error) {
	return deleteCommentSubtree(ctx, repo, projectID, commentID, 0)
}

func deleteCommentSubtree(ctx context.Context, repo interfaces.Repository, projectID types.ProjectID, commentID types.CommentID, depth int) (int, error) {
	if depth > maxCommentDepth {
		return 0, goerr.Wrap(types.ErrInvariantViolated, "comment tree exceeds depth limit",
			goerr.V("project_id", projectID), goerr.V("comment_id", commentID))
	}

	children, err := repo.Comment().ListChildren(ctx, projectID, commentID)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, child := range children {
		n, err := deleteCommentSubtree(ctx, repo, projectID, child.ID, depth+1)
		if err != nil {
			return deleted, err
		}
		deleted += n
	}

	if err := repo.Comment().Delete(ctx, projectID, commentID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return deleted, nil
		}
		return deleted, err
	}
	return deleted + 1, nil
}

// deleteTicketComments removes every comment of a ticket. Top-level comments
// are deleted as trees so the child-before-parent order holds throughout.
func deleteTicketComments(ctx context.Context, repo interfaces.Repository, projectID types.ProjectID, ticketID types.TicketID) error {
	for {
		comments, _, err := repo.Comment().ListByTicket(ctx, projectID, ticketID, "", 0)
		if err != nil {
			return err
		}
		if len(comments) == 0 {
			return nil
		}
		roots := 0
		for _, comment := range comments {
			if comment.IsReply() {
				// reached through its root
				continue
			}
			roots++
			if _, err := deleteCommentTree(ctx, repo, projectID, comment.ID); err != nil {
				return err
			}
		}
		if roots > 0 {
			continue
		}

		// replies whose roots an earlier interrupted run already removed;
		// delete them directly so the retry terminates
		orphans, err := deleteOrphanReplies(ctx, repo, projectID, comments)
		if err != nil {
			return err
		}
		if orphans == 0 {
			// no root and no orphan means the remaining rows form a
			// parent cycle, which the write path cannot produce; drop
			// them directly so the loop terminates on corrupted data
			for _, comment := range comments {
				if err := repo.Comment().Delete(ctx, projectID, comment.ID); err != nil {
					return err
				}
			}
		}
	}
}

// drainTickets walks the project ticket listing to the last page
func drainTickets(ctx context.Context, repo interfaces.Repository, projectID types.ProjectID) ([]*model.Ticket, error) {
	var all []*model.Ticket
	cursor := ""
	for {
		page, next, err := repo.Ticket().ListByProject(ctx, projectID, cursor, 0)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if next == "" {
			return all, nil
		}
		cursor = next
	}
}

// drainSprintTickets walks the sprint ticket listing to the last page
func drainSprintTickets(ctx context.Context, repo interfaces.Repository, projectID types.ProjectID, sprintID types.SprintID) ([]*model.Ticket, error) {
	var all []*model.Ticket
	cursor := ""
	for {
		page, next, err := repo.Ticket().ListBySprint(ctx, projectID, sprintID, cursor, 0)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if next == "" {
			return all, nil
		}
		cursor = next
	}
}

// deleteTicketActivities removes the audit records referencing a ticket.
// Only ticket deletion uses this; the trail is otherwise immutable.
func deleteTicketActivities(ctx context.Context, repo interfaces.Repository, projectID types.ProjectID, ticketID types.TicketID) error {
	for {
		entries, _, err := repo.Activity().ListByTicket(ctx, projectID, ticketID, "", 0)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		for _, entry := range entries {
			if err := repo.Activity().Delete(ctx, projectID, entry.ID); err != nil {
				return err
			}
		}
	}
}

// deleteOrphanReplies removes replies whose parent is already gone. Such
// rows only exist after an interrupted cascade; deleting them directly keeps
// the retry terminating. Returns the number of subtrees removed so callers
// can tell whether the pass made progress.
func deleteOrphanReplies(ctx context.Context, repo interfaces.Repository, projectID types.ProjectID, comments []*model.Comment) (int, error) {
	removed := 0
	for _, comment := range comments {
		if !comment.IsReply() {
			continue
		}
		if _, err := repo.Comment().Get(ctx, projectID, comment.ParentID); err == nil {
			continue
		} else if !errors.Is(err, types.ErrNotFound) {
			return removed, err
		}
		if _, err := deleteCommentTree(ctx, repo, projectID, comment.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
