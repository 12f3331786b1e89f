package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

func TestMemberUseCase_Invite(t *testing.T) {
	t.Run("manager invites a developer", func(t *testing.T) {
		env := newTestEnv(t)
		membership, err := env.uc.Member.Invite(as(managerID), env.projectID, outsiderID, types.RoleDeveloper)
		gt.NoError(t, err).Required()
		gt.Value(t, membership.Role).Equal(types.RoleDeveloper)
		gt.Value(t, membership.InvitedBy).Equal(managerID)
	})

	t.Run("invite ceiling blocks granting above own rank", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.uc.Member.Invite(as(managerID), env.projectID, outsiderID, types.RoleAdmin)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrRankTooHigh)).True()
	})

	t.Run("admin may grant any role", func(t *testing.T) {
		env := newTestEnv(t)
		membership, err := env.uc.Member.Invite(as(ownerID), env.projectID, outsiderID, types.RoleAdmin)
		gt.NoError(t, err).Required()
		gt.Value(t, membership.Role).Equal(types.RoleAdmin)
	})

	t.Run("developer lacks the capability", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.uc.Member.Invite(as(developerID), env.projectID, outsiderID, types.RoleViewer)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrInsufficientRole)).True()
	})

	t.Run("inviting an existing member fails validation", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.uc.Member.Invite(as(ownerID), env.projectID, developerID, types.RoleViewer)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrValidationFailed)).True()
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.uc.Member.Invite(as(outsiderID), env.projectID, types.UserID("U-another"), types.RoleViewer)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrNotAMember)).True()
	})

	t.Run("unauthenticated is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.uc.Member.Invite(context.Background(), env.projectID, outsiderID, types.RoleViewer)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrUnauthenticated)).True()
	})

	t.Run("invite produces an inbox notification", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.uc.Member.Invite(as(ownerID), env.projectID, outsiderID, types.RoleDeveloper)
		gt.NoError(t, err).Required()

		inbox, _, err := env.uc.Notification.List(as(outsiderID), "", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, inbox).Length(1)
		gt.Value(t, inbox[0].Kind).Equal(types.NotificationMemberInvited)
		gt.Value(t, inbox[0].ActorID).Equal(ownerID)
	})
}

func TestMemberUseCase_ChangeRole(t *testing.T) {
	t.Run("manager changes a developer's role", func(t *testing.T) {
		env := newTestEnv(t)
		updated, err := env.uc.Member.ChangeRole(as(managerID), env.projectID, developerID, types.RoleViewer)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Role).Equal(types.RoleViewer)
	})

	t.Run("self role change is denied regardless of rank", func(t *testing.T) {
		env := newTestEnv(t)
		for _, actor := range []types.UserID{ownerID, managerID, developerID} {
			_, err := env.uc.Member.ChangeRole(as(actor), env.projectID, actor, types.RoleViewer)
			gt.Error(t, err)
			gt.B(t, errors.Is(err, types.ErrSelfModification)).True()
		}
	})

	t.Run("owner membership is protected", func(t *testing.T) {
		env := newTestEnv(t)
		// another admin still cannot touch the owner
		_, err := env.uc.Member.Invite(as(ownerID), env.projectID, outsiderID, types.RoleAdmin)
		gt.NoError(t, err).Required()

		_, err = env.uc.Member.ChangeRole(as(outsiderID), env.projectID, ownerID, types.RoleViewer)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrOwnerProtected)).True()
	})

	t.Run("developer targeting a manager is denied for rank", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.uc.Member.ChangeRole(as(developerID), env.projectID, managerID, types.RoleViewer)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrRankTooHigh)).True()
	})

	t.Run("equal rank is denied", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.uc.Member.Invite(as(ownerID), env.projectID, outsiderID, types.RoleManager)
		gt.NoError(t, err).Required()

		_, err = env.uc.Member.ChangeRole(as(managerID), env.projectID, outsiderID, types.RoleViewer)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrRankTooHigh)).True()
	})

	t.Run("manager cannot promote above own rank", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.uc.Member.ChangeRole(as(managerID), env.projectID, developerID, types.RoleAdmin)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrRankTooHigh)).True()
	})
}

func TestMemberUseCase_Remove(t *testing.T) {
	t.Run("manager removes a developer", func(t *testing.T) {
		env := newTestEnv(t)
		gt.NoError(t, env.uc.Member.Remove(as(managerID), env.projectID, developerID))

		members, _, err := env.uc.Member.List(as(ownerID), env.projectID, "", 0)
		gt.NoError(t, err).Required()
		for _, m := range members {
			gt.B(t, m.UserID == developerID).False()
		}
	})

	t.Run("self removal through the management path is denied", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.uc.Member.Remove(as(managerID), env.projectID, managerID)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrSelfModification)).True()
	})

	t.Run("owner cannot be removed", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.uc.Member.Invite(as(ownerID), env.projectID, outsiderID, types.RoleAdmin)
		gt.NoError(t, err).Required()

		err = env.uc.Member.Remove(as(outsiderID), env.projectID, ownerID)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrOwnerProtected)).True()
	})
}

func TestMemberUseCase_Leave(t *testing.T) {
	t.Run("member leaves voluntarily", func(t *testing.T) {
		env := newTestEnv(t)
		gt.NoError(t, env.uc.Member.Leave(as(viewerID), env.projectID))

		members, _, err := env.uc.Member.List(as(ownerID), env.projectID, "", 0)
		gt.NoError(t, err).Required()
		for _, m := range members {
			gt.B(t, m.UserID == viewerID).False()
		}
	})

	t.Run("owner cannot leave", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.uc.Member.Leave(as(ownerID), env.projectID)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrOwnerProtected)).True()
	})
}
