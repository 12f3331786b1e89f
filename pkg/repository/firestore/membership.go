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

const membershipsCollection = "memberships"

type membershipRepository struct {
	f *Firestore
}

// membershipDocID keys a membership by its (project, user) pair
func membershipDocID(projectID types.ProjectID, userID types.UserID) string {
	return projectID.String() + "#" + userID.String()
}

func (r *membershipRepository) Put(ctx context.Context, membership *model.Membership) (*model.Membership, error) {
	docRef := r.f.collection(membershipsCollection).Doc(membershipDocID(membership.ProjectID, membership.UserID))

	now := time.Now().UTC()
	stored := *membership
	stored.UpdatedAt = now

	if snap, err := docRef.Get(ctx); err == nil {
		var existing model.Membership
		if decodeErr := snap.DataTo(&existing); decodeErr == nil {
			stored.CreatedAt = existing.CreatedAt
		}
	} else if status.Code(err) == codes.NotFound {
		stored.CreatedAt = now
	} else {
		return nil, goerr.Wrap(err, "failed to check membership existence",
			goerr.V("project_id", membership.ProjectID), goerr.V("user_id", membership.UserID))
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}

	if _, err := docRef.Set(ctx, &stored); err != nil {
		return nil, goerr.Wrap(err, "failed to put membership",
			goerr.V("project_id", membership.ProjectID), goerr.V("user_id", membership.UserID))
	}
	return &stored, nil
}

func (r *membershipRepository) Get(ctx context.Context, projectID types.ProjectID, userID types.UserID) (*model.Membership, error) {
	docSnap, err := r.f.collection(membershipsCollection).Doc(membershipDocID(projectID, userID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "membership not found",
				goerr.V("project_id", projectID), goerr.V("user_id", userID))
		}
		return nil, goerr.Wrap(err, "failed to get membership",
			goerr.V("project_id", projectID), goerr.V("user_id", userID))
	}

	var membership model.Membership
	if err := docSnap.DataTo(&membership); err != nil {
		return nil, goerr.Wrap(err, "failed to decode membership")
	}
	return &membership, nil
}

func (r *membershipRepository) Delete(ctx context.Context, projectID types.ProjectID, userID types.UserID) error {
	docRef := r.f.collection(membershipsCollection).Doc(membershipDocID(projectID, userID))
	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete membership",
			goerr.V("project_id", projectID), goerr.V("user_id", userID))
	}
	return nil
}

func (r *membershipRepository) ListByProject(ctx context.Context, projectID types.ProjectID, cursor string, limit int) ([]*model.Membership, string, error) {
	q := r.f.collection(membershipsCollection).
		Where("project_id", "==", projectID.String()).
		OrderBy("user_id", firestore.Asc).
		Limit(pageLimit(limit))
	if cursor != "" {
		q = q.StartAfter(cursor)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var memberships []*model.Membership
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to iterate memberships", goerr.V("project_id", projectID))
		}

		var membership model.Membership
		if err := docSnap.DataTo(&membership); err != nil {
			return nil, "", goerr.Wrap(err, "failed to decode membership", goerr.V("doc_id", docSnap.Ref.ID))
		}
		memberships = append(memberships, &membership)
	}

	next := ""
	if len(memberships) == pageLimit(limit) {
		next = memberships[len(memberships)-1].UserID.String()
	}
	return memberships, next, nil
}

func (r *membershipRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.Membership, error) {
	iter := r.f.collection(membershipsCollection).
		Where("user_id", "==", userID.String()).
		Documents(ctx)
	defer iter.Stop()

	var memberships []*model.Membership
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate memberships", goerr.V("user_id", userID))
		}

		var membership model.Membership
		if err := docSnap.DataTo(&membership); err != nil {
			return nil, goerr.Wrap(err, "failed to decode membership", goerr.V("doc_id", docSnap.Ref.ID))
		}
		memberships = append(memberships, &membership)
	}
	return memberships, nil
}
