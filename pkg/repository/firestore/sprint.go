package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const sprintsCollection = "sprints"

type sprintRepository struct {
	f *Firestore
}

func (r *sprintRepository) Create(ctx context.Context, sprint *model.Sprint) (*model.Sprint, error) {
	created := *sprint
	if created.ID == "" {
		created.ID = types.NewSprintID()
	}
	created.Status = types.SprintStatusPlanning
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.f.collection(sprintsCollection).Doc(created.ID.String())
	if _, err := docRef.Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create sprint", goerr.V("sprint_id", created.ID))
	}
	return &created, nil
}

func (r *sprintRepository) Get(ctx context.Context, projectID types.ProjectID, id types.SprintID) (*model.Sprint, error) {
	docSnap, err := r.f.collection(sprintsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "sprint not found",
				goerr.V("project_id", projectID), goerr.V("sprint_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get sprint", goerr.V("sprint_id", id))
	}

	var sprint model.Sprint
	if err := docSnap.DataTo(&sprint); err != nil {
		return nil, goerr.Wrap(err, "failed to decode sprint", goerr.V("sprint_id", id))
	}
	if sprint.ProjectID != projectID {
		return nil, goerr.Wrap(types.ErrNotFound, "sprint not found",
			goerr.V("project_id", projectID), goerr.V("sprint_id", id))
	}
	return &sprint, nil
}

func (r *sprintRepository) Update(ctx context.Context, sprint *model.Sprint) (*model.Sprint, error) {
	stored, err := r.Get(ctx, sprint.ProjectID, sprint.ID)
	if err != nil {
		return nil, err
	}

	// Activation must go through Activate, which checks the single-active
	// invariant transactionally.
	if sprint.Status == types.SprintStatusActive && stored.Status != types.SprintStatusActive {
		return nil, goerr.Wrap(types.ErrInvariantViolated, "sprint cannot be activated through a field update",
			goerr.V("sprint_id", sprint.ID))
	}

	updated := *sprint
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	docRef := r.f.collection(sprintsCollection).Doc(sprint.ID.String())
	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update sprint", goerr.V("sprint_id", sprint.ID))
	}
	return &updated, nil
}

// Activate reads the sprint and the set of active sprints of the project
// inside one transaction, so two concurrent activations cannot both commit.
func (r *sprintRepository) Activate(ctx context.Context, projectID types.ProjectID, id types.SprintID) (*model.Sprint, error) {
	docRef := r.f.collection(sprintsCollection).Doc(id.String())

	var activated model.Sprint
	err := r.f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(types.ErrNotFound, "sprint not found",
					goerr.V("project_id", projectID), goerr.V("sprint_id", id))
			}
			return goerr.Wrap(err, "failed to get sprint", goerr.V("sprint_id", id))
		}

		var sprint model.Sprint
		if err := doc.DataTo(&sprint); err != nil {
			return goerr.Wrap(err, "failed to decode sprint", goerr.V("sprint_id", id))
		}
		if sprint.ProjectID != projectID {
			return goerr.Wrap(types.ErrNotFound, "sprint not found",
				goerr.V("project_id", projectID), goerr.V("sprint_id", id))
		}

		// activating an already active sprint is a no-op
		if sprint.Status == types.SprintStatusActive {
			activated = sprint
			return nil
		}
		if !sprint.Status.CanTransitionTo(types.SprintStatusActive) {
			return goerr.Wrap(types.ErrInvariantViolated, "sprint cannot be activated from its current status",
				goerr.V("sprint_id", id), goerr.V("status", sprint.Status))
		}

		activeQuery := r.f.collection(sprintsCollection).
			Where("project_id", "==", projectID.String()).
			Where("status", "==", types.SprintStatusActive.String()).
			Limit(1)
		iter := tx.Documents(activeQuery)
		defer iter.Stop()
		other, err := iter.Next()
		if err != nil && err != iterator.Done {
			return goerr.Wrap(err, "failed to query active sprints", goerr.V("project_id", projectID))
		}
		if err == nil {
			return goerr.Wrap(types.ErrInvariantViolated, "project already has an active sprint",
				goerr.V("project_id", projectID),
				goerr.V("sprint_id", id),
				goerr.V("active_sprint_id", other.Ref.ID))
		}

		now := time.Now().UTC()
		activated = sprint
		activated.Status = types.SprintStatusActive
		activated.StartedAt = now
		activated.UpdatedAt = now
		return tx.Set(docRef, &activated)
	})
	if err != nil {
		return nil, err
	}
	return &activated, nil
}

func (r *sprintRepository) Delete(ctx context.Context, projectID types.ProjectID, id types.SprintID) error {
	if _, err := r.f.collection(sprintsCollection).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete sprint",
			goerr.V("project_id", projectID), goerr.V("sprint_id", id))
	}
	return nil
}

func (r *sprintRepository) ListByProject(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.Sprint, string, error) {
	q := r.f.collection(sprintsCollection).
		Where("project_id", "==", projectID.String()).
		OrderBy("created_at", firestore.Asc).
		OrderBy("id", firestore.Asc).
		Limit(pageLimit(limit))
	if cursor != "" {
		afterTime, afterID, err := decodeTimeCursor(cursor)
		if err != nil {
			return nil, "", err
		}
		q = q.StartAfter(afterTime, afterID)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var sprints []*model.Sprint
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to iterate sprints", goerr.V("project_id", projectID))
		}

		var sprint model.Sprint
		if err := docSnap.DataTo(&sprint); err != nil {
			return nil, "", goerr.Wrap(err, "failed to decode sprint", goerr.V("doc_id", docSnap.Ref.ID))
		}
		sprints = append(sprints, &sprint)
	}

	next := ""
	if len(sprints) == pageLimit(limit) {
		last := sprints[len(sprints)-1]
		next = encodeTimeCursor(last.CreatedAt, last.ID.String())
	}
	return sprints, next, nil
}
