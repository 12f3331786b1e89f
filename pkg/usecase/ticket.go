package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

type TicketUseCase struct {
	repo     interfaces.Repository
	notifier interfaces.Notifier
	blobs    interfaces.BlobStore
}

func NewTicketUseCase(repo interfaces.Repository, notifier interfaces.Notifier, blobs interfaces.BlobStore) *TicketUseCase {
	return &TicketUseCase{
		repo:     repo,
		notifier: notifier,
		blobs:    blobs,
	}
}

// CreateTicketInput carries the caller-settable fields of a new ticket
type CreateTicketInput struct {
	Title       string
	Description string
	Status      types.TicketStatus
	AssigneeID  types.UserID
	SprintID    types.SprintID
}

func (uc *TicketUseCase) Create(ctx context.Context, projectID types.ProjectID, input CreateTicketInput) (*model.Ticket, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := authorize(ctx, uc.repo, actor, projectID, model.PermCreateTickets); err != nil {
		return nil, err
	}

	var reasons []string
	if strings.TrimSpace(input.Title) == "" {
		reasons = append(reasons, "title is required")
	}
	if input.Status == "" {
		input.Status = types.TicketStatusBacklog
	}
	if !input.Status.IsValid() {
		reasons = append(reasons, "unknown status: "+input.Status.String())
	}
	if len(reasons) > 0 {
		return nil, goerr.Wrap(types.ErrValidationFailed, "invalid ticket", goerr.V("reasons", reasons))
	}

	if input.AssigneeID != "" {
		if err := validateIDs(input.AssigneeID); err != nil {
			return nil, err
		}
		if err := uc.checkAssignee(ctx, projectID, input.AssigneeID); err != nil {
			return nil, err
		}
	}
	if input.SprintID != "" {
		if err := validateIDs(input.SprintID); err != nil {
			return nil, err
		}
		if _, err := uc.repo.Sprint().Get(ctx, projectID, input.SprintID); err != nil {
			return nil, err
		}
	}

	column, err := uc.repo.Ticket().ListByStatus(ctx, projectID, input.Status)
	if err != nil {
		return nil, err
	}
	orders := make([]float64, len(column))
	for i, t := range column {
		orders[i] = t.Order
	}

	created, err := uc.repo.Ticket().Create(ctx, &model.Ticket{
		ProjectID:   projectID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Order:       model.OrderAtTail(orders),
		AssigneeID:  input.AssigneeID,
		ReporterID:  actor,
		SprintID:    input.SprintID,
	})
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.Activity().Append(ctx, &model.ActivityEntry{
		ProjectID: projectID,
		TicketID:  created.ID,
		UserID:    actor,
		Action:    types.ActivityTicketCreated,
		Details:   map[string]string{"title": created.Title},
	}); err != nil {
		return nil, err
	}

	if created.AssigneeID != "" && created.AssigneeID != actor {
		uc.notifyAssigned(ctx, created, actor)
	}
	return created, nil
}

func (uc *TicketUseCase) Get(ctx context.Context, projectID types.ProjectID, id types.TicketID) (*model.Ticket, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := roleOf(ctx, uc.repo, actor, projectID); err != nil {
		return nil, err
	}
	if err := validateIDs(id); err != nil {
		return nil, err
	}
	return uc.repo.Ticket().Get(ctx, projectID, id)
}

func (uc *TicketUseCase) List(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.Ticket, string, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, "", err
	}
	if _, err := roleOf(ctx, uc.repo, actor, projectID); err != nil {
		return nil, "", err
	}
	return uc.repo.Ticket().ListByProject(ctx, projectID, cursor, limit)
}

// UpdateTicketInput carries field edits. Nil pointers leave the field
// unchanged. LastSeen, when set, is the version token the caller last
// observed; the update is rejected with ErrConflict if the ticket changed
// since. Without it the update is last-write-wins.
type UpdateTicketInput struct {
	Title       *string
	Description *string
	LastSeen    *time.Time
}

func (uc *TicketUseCase) Update(ctx context.Context, projectID types.ProjectID, id types.TicketID, input UpdateTicketInput) (*model.Ticket, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := authorize(ctx, uc.repo, actor, projectID, model.PermEditTickets); err != nil {
		return nil, err
	}
	if err := validateIDs(id); err != nil {
		return nil, err
	}

	ticket, err := uc.repo.Ticket().Get(ctx, projectID, id)
	if err != nil {
		return nil, err
	}

	details := map[string]string{}
	if input.Title != nil && *input.Title != ticket.Title {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, goerr.Wrap(types.ErrValidationFailed, "invalid ticket",
				goerr.V("reasons", []string{"title is required"}))
		}
		ticket.Title = *input.Title
		details["title"] = *input.Title
	}
	if input.Description != nil && *input.Description != ticket.Description {
		ticket.Description = *input.Description
		details["description"] = *input.Description
	}
	if len(details) == 0 {
		return ticket, nil
	}

	var updated *model.Ticket
	if input.LastSeen != nil {
		updated, err = uc.repo.Ticket().UpdateIfUnmodified(ctx, ticket, *input.LastSeen)
	} else {
		updated, err = uc.repo.Ticket().Update(ctx, ticket)
	}
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.Activity().Append(ctx, &model.ActivityEntry{
		ProjectID: projectID,
		TicketID:  id,
		UserID:    actor,
		Action:    types.ActivityTicketUpdated,
		Details:   details,
	}); err != nil {
		return nil, err
	}
	return updated, nil
}

// Move drops the ticket into a column after the given neighbor. An empty
// afterID drops at the head of the column. The new order key comes from
// midpoint insertion, so only the moved ticket is written.
func (uc *TicketUseCase) Move(ctx context.Context, projectID types.ProjectID, id types.TicketID, status types.TicketStatus, afterID types.TicketID) (*model.Ticket, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := authorize(ctx, uc.repo, actor, projectID, model.PermMoveTickets); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, goerr.Wrap(types.ErrValidationFailed, "invalid ticket move",
			goerr.V("reasons", []string{"unknown status: " + status.String()}))
	}
	if err := validateIDs(id); err != nil {
		return nil, err
	}
	if afterID != "" {
		if err := validateIDs(afterID); err != nil {
			return nil, err
		}
	}

	ticket, err := uc.repo.Ticket().Get(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	// dropping a ticket onto itself changes nothing
	if afterID == id {
		return ticket, nil
	}

	column, err := uc.repo.Ticket().ListByStatus(ctx, projectID, status)
	if err != nil {
		return nil, err
	}

	order, err := placementOrder(column, id, afterID)
	if err != nil {
		return nil, err
	}
	if model.SamePlacement(ticket, status, order) {
		return ticket, nil
	}

	statusChanged := ticket.Status != status
	previous := ticket.Status
	ticket.Status = status
	ticket.Order = order

	updated, err := uc.repo.Ticket().Update(ctx, ticket)
	if err != nil {
		return nil, err
	}

	if statusChanged {
		if _, err := uc.repo.Activity().Append(ctx, &model.ActivityEntry{
			ProjectID: projectID,
			TicketID:  id,
			UserID:    actor,
			Action:    types.ActivityTicketMoved,
			Details: map[string]string{
				"from": previous.String(),
				"to":   status.String(),
			},
		}); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// placementOrder derives the order key for inserting the moved ticket after
// afterID within the target column. The moved ticket itself is excluded from
// the neighbor scan so a same-column move behaves like remove-then-insert.
func placementOrder(column []*model.Ticket, moved types.TicketID, afterID types.TicketID) (float64, error) {
	var neighbors []*model.Ticket
	for _, t := range column {
		if t.ID == moved {
			continue
		}
		neighbors = append(neighbors, t)
	}

	if afterID == "" {
		if len(neighbors) == 0 {
			return model.OrderBetween(nil, nil), nil
		}
		head := neighbors[0].Order
		return model.OrderBetween(nil, &head), nil
	}

	for i, t := range neighbors {
		if t.ID != afterID {
			continue
		}
		prev := t.Order
		if i == len(neighbors)-1 {
			return model.OrderBetween(&prev, nil), nil
		}
		next := neighbors[i+1].Order
		return model.OrderBetween(&prev, &next), nil
	}
	return 0, goerr.Wrap(types.ErrValidationFailed, "reference ticket is not in the target column",
		goerr.V("after_id", afterID))
}

// Assign sets or clears the assignee. Self-assignment is always allowed for
// holders of the capability; assigning someone else produces an async
// notification that never blocks or fails the operation.
func (uc *TicketUseCase) Assign(ctx context.Context, projectID types.ProjectID, id types.TicketID, assigneeID types.UserID) (*model.Ticket, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := authorize(ctx, uc.repo, actor, projectID, model.PermAssignTickets); err != nil {
		return nil, err
	}
	if err := validateIDs(id); err != nil {
		return nil, err
	}

	ticket, err := uc.repo.Ticket().Get(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if assigneeID != "" {
		if err := validateIDs(assigneeID); err != nil {
			return nil, err
		}
		if err := uc.checkAssignee(ctx, projectID, assigneeID); err != nil {
			return nil, err
		}
	}
	if ticket.AssigneeID == assigneeID {
		return ticket, nil
	}

	ticket.AssigneeID = assigneeID
	updated, err := uc.repo.Ticket().Update(ctx, ticket)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.Activity().Append(ctx, &model.ActivityEntry{
		ProjectID: projectID,
		TicketID:  id,
		UserID:    actor,
		Action:    types.ActivityTicketAssigned,
		Details:   map[string]string{"assignee_id": assigneeID.String()},
	}); err != nil {
		return nil, err
	}

	if assigneeID != "" && assigneeID != actor {
		uc.notifyAssigned(ctx, updated, actor)
	}
	return updated, nil
}

// Delete removes the ticket and everything hanging off it. The ticket's own
// audit records are removed, then a single ticket_deleted record carrying
// the human-readable number is written so the trail still shows that the
// ticket existed.
func (uc *TicketUseCase) Delete(ctx context.Context, projectID types.ProjectID, id types.TicketID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	if _, err := authorize(ctx, uc.repo, actor, projectID, model.PermDeleteTickets); err != nil {
		return err
	}
	if err := validateIDs(id); err != nil {
		return err
	}

	ticket, err := uc.repo.Ticket().Get(ctx, projectID, id)
	if err != nil {
		return err
	}

	if err := deleteTicketComments(ctx, uc.repo, projectID, id); err != nil {
		return err
	}
	if err := uc.deleteAttachments(ctx, projectID, id); err != nil {
		return err
	}
	if err := deleteTicketActivities(ctx, uc.repo, projectID, id); err != nil {
		return err
	}
	if err := uc.repo.Ticket().Delete(ctx, projectID, id); err != nil {
		return err
	}

	if _, err := uc.repo.Activity().Append(ctx, &model.ActivityEntry{
		ProjectID: projectID,
		UserID:    actor,
		Action:    types.ActivityTicketDeleted,
		Details: map[string]string{
			"number": strconv.FormatInt(ticket.Number, 10),
			"title":  ticket.Title,
		},
	}); err != nil {
		return err
	}
	return nil
}

func (uc *TicketUseCase) deleteAttachments(ctx context.Context, projectID types.ProjectID, ticketID types.TicketID) error {
	for {
		attachments, _, err := uc.repo.Attachment().ListByTicket(ctx, projectID, ticketID, "", 0)
		if err != nil {
			return err
		}
		if len(attachments) == 0 {
			return nil
		}
		for _, attachment := range attachments {
			if uc.blobs != nil {
				if err := uc.blobs.Delete(ctx, attachment.BlobKey); err != nil {
					return goerr.Wrap(err, "failed to delete attachment blob",
						goerr.V("attachment_id", attachment.ID), goerr.V("blob_key", attachment.BlobKey))
				}
			}
			if err := uc.repo.Attachment().Delete(ctx, projectID, attachment.ID); err != nil {
				return err
			}
		}
	}
}

// checkAssignee requires the assignee to be a member of the project
func (uc *TicketUseCase) checkAssignee(ctx context.Context, projectID types.ProjectID, assigneeID types.UserID) error {
	if _, err := uc.repo.Membership().Get(ctx, projectID, assigneeID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return goerr.Wrap(types.ErrValidationFailed, "assignee is not a member",
				goerr.V("project_id", projectID), goerr.V("assignee_id", assigneeID))
		}
		return err
	}
	return nil
}

func (uc *TicketUseCase) notifyAssigned(ctx context.Context, ticket *model.Ticket, actor types.UserID) {
	notifyAsync(ctx, uc.repo, uc.notifier, &model.Notification{
		UserID:    ticket.AssigneeID,
		Kind:      types.NotificationTicketAssigned,
		ProjectID: ticket.ProjectID,
		TicketID:  ticket.ID,
		ActorID:   actor,
		Message:   fmt.Sprintf("you were assigned ticket #%d: %s", ticket.Number, ticket.Title),
	})
}
