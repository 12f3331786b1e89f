package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model/auth"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// actorFrom resolves the requesting user from the context. Every operation
// starts here; an absent actor is ErrUnauthenticated regardless of what the
// operation would otherwise allow.
func actorFrom(ctx context.Context) (types.UserID, error) {
	return auth.UserFromContext(ctx)
}

// validateIDs rejects malformed identifiers before they reach the store.
// Optional IDs are checked at the call site only when set.
func validateIDs(ids ...interface{ Validate() error }) error {
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// roleOf resolves the actor's role in the project without checking any
// capability. Member management applies its hierarchy rules before the
// capability bit, so a developer targeting a manager is denied for rank,
// not for the missing capability.
func roleOf(ctx context.Context, repo interfaces.Repository, actor types.UserID, projectID types.ProjectID) (types.Role, error) {
	if err := validateIDs(actor, projectID); err != nil {
		return "", err
	}
	membership, err := repo.Membership().Get(ctx, projectID, actor)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return "", goerr.Wrap(types.ErrNotAMember, "actor is not a member",
				goerr.V("project_id", projectID), goerr.V("actor_id", actor))
		}
		return "", err
	}
	return membership.Role, nil
}

// authorize is the single authorization gate. It resolves the actor's
// membership in the project and checks the capability bit of the actor's
// role. The role is returned so callers can apply rank comparisons on top.
func authorize(ctx context.Context, repo interfaces.Repository, actor types.UserID, projectID types.ProjectID, perm model.Permission) (types.Role, error) {
	role, err := roleOf(ctx, repo, actor, projectID)
	if err != nil {
		return "", err
	}

	if !model.PermissionsOf(role).Has(perm) {
		return "", goerr.Wrap(types.ErrInsufficientRole, "capability not granted",
			goerr.V("project_id", projectID),
			goerr.V("actor_id", actor),
			goerr.V("role", role),
			goerr.V("capability", perm))
	}
	return role, nil
}

// checkMemberManagement layers the hierarchy rules on top of the capability
// check for operations that change another member's membership. The checks
// run in a fixed order so the most specific denial wins:
//
//  1. actor == target is never management (ErrSelfModification)
//  2. the owner's membership is untouchable (ErrOwnerProtected)
//  3. the target must rank strictly below the actor (ErrRankTooHigh)
//  4. a new role must not exceed the actor's rank, except for admins
//     (ErrRankTooHigh)
//
// newRole is nil for removal.
func checkMemberManagement(actor types.UserID, actorRole types.Role, target *model.Membership, owner types.UserID, newRole *types.Role) error {
	if actor == target.UserID {
		return goerr.Wrap(types.ErrSelfModification, "actor targets own membership",
			goerr.V("project_id", target.ProjectID), goerr.V("actor_id", actor))
	}
	if target.UserID == owner {
		return goerr.Wrap(types.ErrOwnerProtected, "target is the project owner",
			goerr.V("project_id", target.ProjectID), goerr.V("owner_id", owner))
	}
	if target.Role.Rank() >= actorRole.Rank() {
		return goerr.Wrap(types.ErrRankTooHigh, "target outranks actor",
			goerr.V("actor_role", actorRole), goerr.V("target_role", target.Role))
	}
	if newRole != nil && actorRole != types.RoleAdmin && newRole.Rank() > actorRole.Rank() {
		return goerr.Wrap(types.ErrRankTooHigh, "new role exceeds actor rank",
			goerr.V("actor_role", actorRole), goerr.V("new_role", *newRole))
	}
	return nil
}

// checkInviteCeiling bounds the role an actor may hand out on invite. Admins
// may grant any role; everyone else only roles up to their own rank.
func checkInviteCeiling(actorRole, newRole types.Role) error {
	if actorRole == types.RoleAdmin {
		return nil
	}
	if newRole.Rank() > actorRole.Rank() {
		return goerr.Wrap(types.ErrRankTooHigh, "invited role exceeds actor rank",
			goerr.V("actor_role", actorRole), goerr.V("new_role", newRole))
	}
	return nil
}
