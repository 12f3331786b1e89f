package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

type activityRepository struct {
	mu      sync.RWMutex
	entries map[types.ProjectID]map[types.ActivityID]*model.ActivityEntry
}

func newActivityRepository() *activityRepository {
	return &activityRepository{
		entries: make(map[types.ProjectID]map[types.ActivityID]*model.ActivityEntry),
	}
}

func copyActivity(e *model.ActivityEntry) *model.ActivityEntry {
	copied := *e
	if e.Details != nil {
		copied.Details = make(map[string]string, len(e.Details))
		for k, v := range e.Details {
			copied.Details[k] = v
		}
	}
	return &copied
}

func (r *activityRepository) Append(ctx context.Context, entry *model.ActivityEntry) (*model.ActivityEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[entry.ProjectID]; !exists {
		r.entries[entry.ProjectID] = make(map[types.ActivityID]*model.ActivityEntry)
	}

	created := copyActivity(entry)
	if created.ID == "" {
		created.ID = types.NewActivityID()
	}
	created.CreatedAt = time.Now().UTC()
	created.Details = model.SanitizeDetails(created.Details)

	r.entries[entry.ProjectID][created.ID] = created
	return copyActivity(created), nil
}

func (r *activityRepository) ListByProject(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.ActivityEntry, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.entries[projectID]
	all := make([]*model.ActivityEntry, 0, len(bucket))
	for _, e := range bucket {
		all = append(all, copyActivity(e))
	}
	return sortAndPaginateActivity(all, cursor, limit)
}

func (r *activityRepository) ListByTicket(ctx context.Context, projectID types.ProjectID, ticketID types.TicketID, cursor string, limit int) ([]*model.ActivityEntry, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*model.ActivityEntry
	for _, e := range r.entries[projectID] {
		if e.TicketID == ticketID {
			all = append(all, copyActivity(e))
		}
	}
	return sortAndPaginateActivity(all, cursor, limit)
}

// sortAndPaginateActivity orders entries newest first
func sortAndPaginateActivity(all []*model.ActivityEntry, cursor string, limit int) ([]*model.ActivityEntry, string, error) {
	key := func(e *model.ActivityEntry) string {
		return descKey(e.CreatedAt, string(e.ID))
	}
	sort.Slice(all, func(i, j int) bool {
		return key(all[i]) < key(all[j])
	})
	page, next := paginate(all, cursor, limit, key)
	return page, next, nil
}

func (r *activityRepository) Delete(ctx context.Context, projectID types.ProjectID, id types.ActivityID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bucket, exists := r.entries[projectID]; exists {
		delete(bucket, id)
	}
	return nil
}
