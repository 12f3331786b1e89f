package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/utils/errutil"
	"github.com/sprintdeck/sprintdeck/pkg/utils/logging"
)

type ProjectUseCase struct {
	repo   interfaces.Repository
	groups interfaces.IdentityGroup
	blobs  interfaces.BlobStore
}

func NewProjectUseCase(repo interfaces.Repository, groups interfaces.IdentityGroup, blobs interfaces.BlobStore) *ProjectUseCase {
	return &ProjectUseCase{
		repo:   repo,
		groups: groups,
		blobs:  blobs,
	}
}

// Create makes a project with the actor as owner. The owner receives an
// admin membership in the same step; a project without a resolvable owner
// membership must never exist.
func (uc *ProjectUseCase) Create(ctx context.Context, name, description string) (*model.Project, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateIDs(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, goerr.Wrap(types.ErrValidationFailed, "project name is required")
	}

	project := &model.Project{
		ID:          types.NewProjectID(),
		Name:        name,
		Description: description,
		OwnerID:     actor,
	}

	if uc.groups != nil {
		groupID, err := uc.groups.CreateGroup(ctx, project.ID, name)
		if err != nil {
			errutil.Handle(ctx, err, "failed to create identity group")
		} else {
			project.GroupID = groupID
		}
	}

	created, err := uc.repo.Project().Create(ctx, project)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.Membership().Put(ctx, &model.Membership{
		ProjectID: created.ID,
		UserID:    actor,
		Role:      types.RoleAdmin,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to create owner membership", goerr.V("project_id", created.ID))
	}

	if uc.groups != nil && created.GroupID != "" {
		if err := uc.groups.AddMember(ctx, created.GroupID, actor); err != nil {
			errutil.Handle(ctx, err, "failed to add owner to identity group")
		}
	}

	if _, err := uc.repo.Activity().Append(ctx, &model.ActivityEntry{
		ProjectID: created.ID,
		UserID:    actor,
		Action:    types.ActivityProjectCreated,
		Details:   map[string]string{"name": name},
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// Get returns a project to any of its members
func (uc *ProjectUseCase) Get(ctx context.Context, projectID types.ProjectID) (*model.Project, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := roleOf(ctx, uc.repo, actor, projectID); err != nil {
		return nil, err
	}
	return uc.repo.Project().Get(ctx, projectID)
}

func (uc *ProjectUseCase) Update(ctx context.Context, projectID types.ProjectID, name, description string) (*model.Project, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := authorize(ctx, uc.repo, actor, projectID, model.PermEditProject); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, goerr.Wrap(types.ErrValidationFailed, "project name is required")
	}

	project, err := uc.repo.Project().Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	details := map[string]string{}
	if project.Name != name {
		details["name"] = name
	}
	if project.Description != description {
		details["description"] = description
	}

	project.Name = name
	project.Description = description
	updated, err := uc.repo.Project().Update(ctx, project)
	if err != nil {
		return nil, err
	}

	if len(details) > 0 {
		if _, err := uc.repo.Activity().Append(ctx, &model.ActivityEntry{
			ProjectID: projectID,
			UserID:    actor,
			Action:    types.ActivityProjectUpdated,
			Details:   details,
		}); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// Delete destroys the project and everything inside it. The cascade runs in
// a fixed order, every step is idempotent, and every listing is drained to
// its last page, so an interrupted run can simply be retried.
func (uc *ProjectUseCase) Delete(ctx context.Context, projectID types.ProjectID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	if err := validateIDs(actor, projectID); err != nil {
		return err
	}

	project, err := uc.repo.Project().Get(ctx, projectID)
	if err != nil {
		return err
	}

	if _, err := authorize(ctx, uc.repo, actor, projectID, model.PermDeleteProject); err != nil {
		// A run interrupted after the memberships step leaves the owner
		// without a membership. The owner may always resume the cascade.
		if !errors.Is(err, types.ErrNotAMember) || project.OwnerID != actor {
			return err
		}
	}

	// collect every ticket first; ticket rows go away mid-cascade but
	// their comments and attachments are found through this snapshot
	tickets, err := drainTickets(ctx, uc.repo, projectID)
	if err != nil {
		return err
	}

	for _, ticket := range tickets {
		if err := uc.deleteTicketAttachments(ctx, projectID, ticket.ID); err != nil {
			return err
		}
		if err := deleteTicketComments(ctx, uc.repo, projectID, ticket.ID); err != nil {
			return err
		}
		if err := uc.repo.Ticket().Delete(ctx, projectID, ticket.ID); err != nil {
			return err
		}
	}

	if err := uc.deleteSprints(ctx, projectID); err != nil {
		return err
	}
	if err := uc.deleteActivities(ctx, projectID); err != nil {
		return err
	}
	if err := uc.deleteNotifications(ctx, projectID); err != nil {
		return err
	}
	if err := uc.deleteMemberships(ctx, projectID); err != nil {
		return err
	}

	if err := uc.repo.Project().Delete(ctx, projectID); err != nil {
		return err
	}

	if uc.groups != nil && project.GroupID != "" {
		if err := uc.groups.DeleteGroup(ctx, project.GroupID); err != nil {
			errutil.Handle(ctx, err, "failed to delete identity group")
		}
	}

	logging.From(ctx).Info("project deleted",
		"project_id", projectID,
		"tickets", len(tickets))
	return nil
}

func (uc *ProjectUseCase) deleteTicketAttachments(ctx context.Context, projectID types.ProjectID, ticketID types.TicketID) error {
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

func (uc *ProjectUseCase) deleteSprints(ctx context.Context, projectID types.ProjectID) error {
	for {
		sprints, _, err := uc.repo.Sprint().ListByProject(ctx, projectID, "", 0)
		if err != nil {
			return err
		}
		if len(sprints) == 0 {
			return nil
		}
		for _, sprint := range sprints {
			if err := uc.repo.Sprint().Delete(ctx, projectID, sprint.ID); err != nil {
				return err
			}
		}
	}
}

func (uc *ProjectUseCase) deleteActivities(ctx context.Context, projectID types.ProjectID) error {
	for {
		entries, _, err := uc.repo.Activity().ListByProject(ctx, projectID, "", 0)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		for _, entry := range entries {
			if err := uc.repo.Activity().Delete(ctx, projectID, entry.ID); err != nil {
				return err
			}
		}
	}
}

func (uc *ProjectUseCase) deleteNotifications(ctx context.Context, projectID types.ProjectID) error {
	for {
		notifications, _, err := uc.repo.Notification().ListByProject(ctx, projectID, "", 0)
		if err != nil {
			return err
		}
		if len(notifications) == 0 {
			return nil
		}
		for _, notification := range notifications {
			if err := uc.repo.Notification().Delete(ctx, notification.ID); err != nil {
				return err
			}
		}
	}
}

func (uc *ProjectUseCase) deleteMemberships(ctx context.Context, projectID types.ProjectID) error {
	for {
		memberships, _, err := uc.repo.Membership().ListByProject(ctx, projectID, "", 0)
		if err != nil {
			return err
		}
		if len(memberships) == 0 {
			return nil
		}
		for _, membership := range memberships {
			if err := uc.repo.Membership().Delete(ctx, projectID, membership.UserID); err != nil {
				return err
			}
		}
	}
}

// Activity lists the project audit trail, newest first
func (uc *ProjectUseCase) Activity(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.ActivityEntry, string, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, "", err
	}
	if _, err := roleOf(ctx, uc.repo, actor, projectID); err != nil {
		return nil, "", err
	}
	return uc.repo.Activity().ListByProject(ctx, projectID, cursor, limit)
}
