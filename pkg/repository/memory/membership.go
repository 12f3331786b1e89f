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

type membershipRepository struct {
	mu      sync.RWMutex
	members map[types.ProjectID]map[types.UserID]*model.Membership
}

func newMembershipRepository() *membershipRepository {
	return &membershipRepository{
		members: make(map[types.ProjectID]map[types.UserID]*model.Membership),
	}
}

func copyMembership(m *model.Membership) *model.Membership {
	copied := *m
	return &copied
}

func (r *membershipRepository) ensureProject(projectID types.ProjectID) {
	if _, exists := r.members[projectID]; !exists {
		r.members[projectID] = make(map[types.UserID]*model.Membership)
	}
}

func (r *membershipRepository) Put(ctx context.Context, membership *model.Membership) (*model.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureProject(membership.ProjectID)

	now := time.Now().UTC()
	stored := copyMembership(membership)
	if existing, exists := r.members[membership.ProjectID][membership.UserID]; exists {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.members[membership.ProjectID][membership.UserID] = stored
	return copyMembership(stored), nil
}

func (r *membershipRepository) Get(ctx context.Context, projectID types.ProjectID, userID types.UserID) (*model.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, exists := r.members[projectID]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "membership not found",
			goerr.V("project_id", projectID), goerr.V("user_id", userID))
	}
	membership, exists := bucket[userID]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "membership not found",
			goerr.V("project_id", projectID), goerr.V("user_id", userID))
	}
	return copyMembership(membership), nil
}

func (r *membershipRepository) Delete(ctx context.Context, projectID types.ProjectID, userID types.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bucket, exists := r.members[projectID]; exists {
		delete(bucket, userID)
	}
	return nil
}

func (r *membershipRepository) ListByProject(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.Membership, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.members[projectID]
	all := make([]*model.Membership, 0, len(bucket))
	for _, m := range bucket {
		all = append(all, copyMembership(m))
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].UserID < all[j].UserID
	})

	page, next := paginate(all, cursor, limit, func(m *model.Membership) string {
		return string(m.UserID)
	})
	return page, next, nil
}

func (r *membershipRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Membership
	for _, bucket := range r.members {
		if m, exists := bucket[userID]; exists {
			result = append(result, copyMembership(m))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ProjectID < result[j].ProjectID
	})
	return result, nil
}
