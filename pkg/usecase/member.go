package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/utils/errutil"
)

type MemberUseCase struct {
	repo     interfaces.Repository
	notifier interfaces.Notifier
	groups   interfaces.IdentityGroup
}

func NewMemberUseCase(repo interfaces.Repository, notifier interfaces.Notifier, groups interfaces.IdentityGroup) *MemberUseCase {
	return &MemberUseCase{
		repo:     repo,
		notifier: notifier,
		groups:   groups,
	}
}

// Invite adds a user to the project. The granted role is capped at the
// inviter's own rank unless the inviter is an admin.
func (uc *MemberUseCase) Invite(ctx context.Context, projectID types.ProjectID, userID types.UserID, role types.Role) (*model.Membership, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	actorRole, err := authorize(ctx, uc.repo, actor, projectID, model.PermManageMembers)
	if err != nil {
		return nil, err
	}
	if err := validateIDs(userID); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, goerr.Wrap(types.ErrValidationFailed, "invalid role", goerr.V("role", role))
	}
	if err := checkInviteCeiling(actorRole, role); err != nil {
		return nil, err
	}

	if _, err := uc.repo.Membership().Get(ctx, projectID, userID); err == nil {
		return nil, goerr.Wrap(types.ErrValidationFailed, "user is already a member",
			goerr.V("project_id", projectID), goerr.V("user_id", userID))
	} else if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}

	membership, err := uc.repo.Membership().Put(ctx, &model.Membership{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		InvitedBy: actor,
	})
	if err != nil {
		return nil, err
	}

	if uc.groups != nil {
		if project, err := uc.repo.Project().Get(ctx, projectID); err == nil && project.GroupID != "" {
			if err := uc.groups.AddMember(ctx, project.GroupID, userID); err != nil {
				errutil.Handle(ctx, err, "failed to add member to identity group")
			}
		}
	}

	if _, err := uc.repo.Activity().Append(ctx, &model.ActivityEntry{
		ProjectID: projectID,
		UserID:    actor,
		Action:    types.ActivityMemberInvited,
		Details:   map[string]string{"user_id": userID.String(), "role": role.String()},
	}); err != nil {
		return nil, err
	}

	notify(ctx, uc.repo, uc.notifier, &model.Notification{
		UserID:    userID,
		Kind:      types.NotificationMemberInvited,
		ProjectID: projectID,
		ActorID:   actor,
		Message:   fmt.Sprintf("you were added to the project as %s", role),
	})

	return membership, nil
}

// ChangeRole sets another member's role. The hierarchy rules run before the
// capability bit so a rank violation is reported as such.
func (uc *MemberUseCase) ChangeRole(ctx context.Context, projectID types.ProjectID, userID types.UserID, role types.Role) (*model.Membership, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	actorRole, err := roleOf(ctx, uc.repo, actor, projectID)
	if err != nil {
		return nil, err
	}
	if err := validateIDs(userID); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, goerr.Wrap(types.ErrValidationFailed, "invalid role", goerr.V("role", role))
	}

	target, err := uc.repo.Membership().Get(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	project, err := uc.repo.Project().Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := checkMemberManagement(actor, actorRole, target, project.OwnerID, &role); err != nil {
		return nil, err
	}
	if !model.PermissionsOf(actorRole).Has(model.PermManageMembers) {
		return nil, goerr.Wrap(types.ErrInsufficientRole, "capability not granted",
			goerr.V("project_id", projectID), goerr.V("actor_id", actor), goerr.V("role", actorRole))
	}

	previous := target.Role
	target.Role = role
	updated, err := uc.repo.Membership().Put(ctx, target)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.Activity().Append(ctx, &model.ActivityEntry{
		ProjectID: projectID,
		UserID:    actor,
		Action:    types.ActivityMemberRoleSet,
		Details: map[string]string{
			"user_id":  userID.String(),
			"previous": previous.String(),
			"role":     role.String(),
		},
	}); err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove takes another member out of the project
func (uc *MemberUseCase) Remove(ctx context.Context, projectID types.ProjectID, userID types.UserID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	actorRole, err := roleOf(ctx, uc.repo, actor, projectID)
	if err != nil {
		return err
	}
	if err := validateIDs(userID); err != nil {
		return err
	}

	target, err := uc.repo.Membership().Get(ctx, projectID, userID)
	if err != nil {
		return err
	}
	project, err := uc.repo.Project().Get(ctx, projectID)
	if err != nil {
		return err
	}
	if err := checkMemberManagement(actor, actorRole, target, project.OwnerID, nil); err != nil {
		return err
	}
	if !model.PermissionsOf(actorRole).Has(model.PermManageMembers) {
		return goerr.Wrap(types.ErrInsufficientRole, "capability not granted",
			goerr.V("project_id", projectID), goerr.V("actor_id", actor), goerr.V("role", actorRole))
	}

	if err := uc.repo.Membership().Delete(ctx, projectID, userID); err != nil {
		return err
	}

	uc.removeFromGroup(ctx, project, userID)

	if _, err := uc.repo.Activity().Append(ctx, &model.ActivityEntry{
		ProjectID: projectID,
		UserID:    actor,
		Action:    types.ActivityMemberRemoved,
		Details:   map[string]string{"user_id": userID.String()},
	}); err != nil {
		return err
	}
	return nil
}

// Leave removes the actor's own membership. This is the only path that may
// touch one's own membership; the owner cannot leave their project.
func (uc *MemberUseCase) Leave(ctx context.Context, projectID types.ProjectID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	if _, err := roleOf(ctx, uc.repo, actor, projectID); err != nil {
		return err
	}

	project, err := uc.repo.Project().Get(ctx, projectID)
	if err != nil {
		return err
	}
	if project.OwnerID == actor {
		return goerr.Wrap(types.ErrOwnerProtected, "owner cannot leave the project",
			goerr.V("project_id", projectID), goerr.V("owner_id", actor))
	}

	if err := uc.repo.Membership().Delete(ctx, projectID, actor); err != nil {
		return err
	}

	uc.removeFromGroup(ctx, project, actor)

	if _, err := uc.repo.Activity().Append(ctx, &model.ActivityEntry{
		ProjectID: projectID,
		UserID:    actor,
		Action:    types.ActivityMemberLeft,
	}); err != nil {
		return err
	}
	return nil
}

// List returns the memberships of a project, visible to any member
func (uc *MemberUseCase) List(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.Membership, string, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, "", err
	}
	if _, err := roleOf(ctx, uc.repo, actor, projectID); err != nil {
		return nil, "", err
	}
	return uc.repo.Membership().ListByProject(ctx, projectID, cursor, limit)
}

func (uc *MemberUseCase) removeFromGroup(ctx context.Context, project *model.Project, userID types.UserID) {
	if uc.groups == nil || project.GroupID == "" {
		return
	}
	if err := uc.groups.RemoveMember(ctx, project.GroupID, userID); err != nil {
		errutil.Handle(ctx, err, "failed to remove member from identity group")
	}
}
