package usecase_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/usecase"
)

func TestCommentUseCase_Add(t *testing.T) {
	t.Run("viewer may comment", func(t *testing.T) {
		env := newTestEnv(t)
		ticket, err := env.uc.Ticket.Create(as(developerID), env.projectID, usecase.CreateTicketInput{Title: "a"})
		gt.NoError(t, err).Required()

		comment, err := env.uc.Comment.Add(as(viewerID), env.projectID, ticket.ID, "", "looks wrong")
		gt.NoError(t, err).Required()
		gt.Value(t, comment.AuthorID).Equal(viewerID)
		gt.B(t, comment.IsReply()).False()
	})

	t.Run("reply must target a comment on the same ticket", func(t *testing.T) {
		env := newTestEnv(t)
		first, err := env.uc.Ticket.Create(as(developerID), env.projectID, usecase.CreateTicketInput{Title: "a"})
		gt.NoError(t, err).Required()
		second, err := env.uc.Ticket.Create(as(developerID), env.projectID, usecase.CreateTicketInput{Title: "b"})
		gt.NoError(t, err).Required()

		parent, err := env.uc.Comment.Add(as(developerID), env.projectID, first.ID, "", "top")
		gt.NoError(t, err).Required()

		_, err = env.uc.Comment.Add(as(developerID), env.projectID, second.ID, parent.ID, "cross-ticket reply")
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrValidationFailed)).True()
	})

	t.Run("notifications reach reporter and parent author, never the actor", func(t *testing.T) {
		env := newTestEnv(t)
		ticket, err := env.uc.Ticket.Create(as(developerID), env.projectID, usecase.CreateTicketInput{Title: "a"})
		gt.NoError(t, err).Required()

		parent, err := env.uc.Comment.Add(as(viewerID), env.projectID, ticket.ID, "", "top")
		gt.NoError(t, err).Required()

		// developer replies: viewer gets a reply notification; the
		// developer is reporter and actor, so gets nothing
		_, err = env.uc.Comment.Add(as(developerID), env.projectID, ticket.ID, parent.ID, "reply")
		gt.NoError(t, err).Required()

		// inbox filters drop the member_invited entries from test setup
		viewerInbox, _, err := env.uc.Notification.List(as(viewerID), "", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, commentNotifications(viewerInbox)).Length(1)
		gt.Value(t, commentNotifications(viewerInbox)[0].Kind).Equal(types.NotificationCommentReply)

		devInbox, _, err := env.uc.Notification.List(as(developerID), "", 10)
		gt.NoError(t, err).Required()
		// only the notification from the viewer's top comment
		gt.Array(t, commentNotifications(devInbox)).Length(1)
		gt.Value(t, commentNotifications(devInbox)[0].Kind).Equal(types.NotificationCommentAdded)
	})
}

func commentNotifications(inbox []*model.Notification) []*model.Notification {
	var out []*model.Notification
	for _, n := range inbox {
		if n.Kind == types.NotificationCommentAdded || n.Kind == types.NotificationCommentReply {
			out = append(out, n)
		}
	}
	return out
}

func TestCommentUseCase_Edit(t *testing.T) {
	t.Run("author edits own comment", func(t *testing.T) {
		env := newTestEnv(t)
		ticket, err := env.uc.Ticket.Create(as(developerID), env.projectID, usecase.CreateTicketInput{Title: "a"})
		gt.NoError(t, err).Required()
		comment, err := env.uc.Comment.Add(as(viewerID), env.projectID, ticket.ID, "", "tpyo")
		gt.NoError(t, err).Required()

		updated, err := env.uc.Comment.Edit(as(viewerID), env.projectID, comment.ID, "typo")
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Body).Equal("typo")
	})

	t.Run("manager edits anyone's comment", func(t *testing.T) {
		env := newTestEnv(t)
		ticket, err := env.uc.Ticket.Create(as(developerID), env.projectID, usecase.CreateTicketInput{Title: "a"})
		gt.NoError(t, err).Required()
		comment, err := env.uc.Comment.Add(as(viewerID), env.projectID, ticket.ID, "", "original")
		gt.NoError(t, err).Required()

		_, err = env.uc.Comment.Edit(as(managerID), env.projectID, comment.ID, "moderated")
		gt.NoError(t, err)
	})

	t.Run("developer cannot edit another's comment", func(t *testing.T) {
		env := newTestEnv(t)
		ticket, err := env.uc.Ticket.Create(as(developerID), env.projectID, usecase.CreateTicketInput{Title: "a"})
		gt.NoError(t, err).Required()
		comment, err := env.uc.Comment.Add(as(viewerID), env.projectID, ticket.ID, "", "original")
		gt.NoError(t, err).Required()

		_, err = env.uc.Comment.Edit(as(developerID), env.projectID, comment.ID, "vandalism")
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrInsufficientRole)).True()
	})
}

func TestCommentUseCase_Delete(t *testing.T) {
	// a root with two replies, one reply itself carrying a reply; deleting
	// the root must remove exactly four comments, children before parents
	buildTree := func(t *testing.T, env *testEnv) (types.TicketID, types.CommentID) {
		t.Helper()
		ticket, err := env.uc.Ticket.Create(as(developerID), env.projectID, usecase.CreateTicketInput{Title: "a"})
		gt.NoError(t, err).Required()
		root, err := env.uc.Comment.Add(as(developerID), env.projectID, ticket.ID, "", "root")
		gt.NoError(t, err).Required()
		replyA, err := env.uc.Comment.Add(as(viewerID), env.projectID, ticket.ID, root.ID, "reply A")
		gt.NoError(t, err).Required()
		_, err = env.uc.Comment.Add(as(managerID), env.projectID, ticket.ID, root.ID, "reply B")
		gt.NoError(t, err).Required()
		_, err = env.uc.Comment.Add(as(developerID), env.projectID, ticket.ID, replyA.ID, "reply to A")
		gt.NoError(t, err).Required()
		return ticket.ID, root.ID
	}

	t.Run("subtree deletion removes all four comments", func(t *testing.T) {
		env := newTestEnv(t)
		ticketID, rootID := buildTree(t, env)

		gt.NoError(t, env.uc.Comment.Delete(as(developerID), env.projectID, rootID))

		remaining, _, err := env.uc.Comment.ListByTicket(as(developerID), env.projectID, ticketID, "", 0)
		gt.NoError(t, err).Required()
		gt.Array(t, remaining).Length(0)
	})

	t.Run("deleting a mid-tree reply keeps the root", func(t *testing.T) {
		env := newTestEnv(t)
		ticket, err := env.uc.Ticket.Create(as(developerID), env.projectID, usecase.CreateTicketInput{Title: "a"})
		gt.NoError(t, err).Required()
		root, err := env.uc.Comment.Add(as(developerID), env.projectID, ticket.ID, "", "root")
		gt.NoError(t, err).Required()
		reply, err := env.uc.Comment.Add(as(developerID), env.projectID, ticket.ID, root.ID, "reply")
		gt.NoError(t, err).Required()
		_, err = env.uc.Comment.Add(as(developerID), env.projectID, ticket.ID, reply.ID, "nested")
		gt.NoError(t, err).Required()

		gt.NoError(t, env.uc.Comment.Delete(as(developerID), env.projectID, reply.ID))

		remaining, _, err := env.uc.Comment.ListByTicket(as(developerID), env.projectID, ticket.ID, "", 0)
		gt.NoError(t, err).Required()
		gt.Array(t, remaining).Length(1)
		gt.Value(t, remaining[0].ID).Equal(root.ID)
	})

	t.Run("author without delete capability removes own comment", func(t *testing.T) {
		env := newTestEnv(t)
		ticket, err := env.uc.Ticket.Create(as(developerID), env.projectID, usecase.CreateTicketInput{Title: "a"})
		gt.NoError(t, err).Required()
		comment, err := env.uc.Comment.Add(as(viewerID), env.projectID, ticket.ID, "", "mine")
		gt.NoError(t, err).Required()

		gt.NoError(t, env.uc.Comment.Delete(as(viewerID), env.projectID, comment.ID))
	})

	t.Run("non-author without capability is denied", func(t *testing.T) {
		env := newTestEnv(t)
		ticket, err := env.uc.Ticket.Create(as(developerID), env.projectID, usecase.CreateTicketInput{Title: "a"})
		gt.NoError(t, err).Required()
		comment, err := env.uc.Comment.Add(as(viewerID), env.projectID, ticket.ID, "", "not yours")
		gt.NoError(t, err).Required()

		err = env.uc.Comment.Delete(as(developerID), env.projectID, comment.ID)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrInsufficientRole)).True()
	})

	t.Run("deletion count is recorded in the audit trail", func(t *testing.T) {
		env := newTestEnv(t)
		_, rootID := buildTree(t, env)

		gt.NoError(t, env.uc.Comment.Delete(as(managerID), env.projectID, rootID))

		entries, _, err := env.uc.Project.Activity(as(managerID), env.projectID, "", 10)
		gt.NoError(t, err).Required()
		gt.Value(t, entries[0].Action).Equal(types.ActivityCommentDeleted)
		gt.Value(t, entries[0].Details["deleted"]).Equal("4")
	})
}
