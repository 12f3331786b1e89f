package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model/auth"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/repository/memory"
	"github.com/sprintdeck/sprintdeck/pkg/usecase"
)

const (
	ownerID     = types.UserID("U-owner")
	managerID   = types.UserID("U-manager")
	developerID = types.UserID("U-developer")
	viewerID    = types.UserID("U-viewer")
	outsiderID  = types.UserID("U-outsider")
)

type testEnv struct {
	repo      *memory.Memory
	uc        *usecase.UseCases
	projectID types.ProjectID
}

// newTestEnv builds a project owned by ownerID with one member per role
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := memory.New()
	uc := usecase.New(repo)

	ctx := as(ownerID)
	project, err := uc.Project.Create(ctx, "Test Project", "a project for tests")
	gt.NoError(t, err).Required()

	for userID, role := range map[types.UserID]types.Role{
		managerID:   types.RoleManager,
		developerID: types.RoleDeveloper,
		viewerID:    types.RoleViewer,
	} {
		_, err := uc.Member.Invite(ctx, project.ID, userID, role)
		gt.NoError(t, err).Required()
	}

	return &testEnv{
		repo:      repo,
		uc:        uc,
		projectID: project.ID,
	}
}

// as returns a context authenticated as the given user
func as(userID types.UserID) context.Context {
	return auth.ContextWithUser(context.Background(), userID)
}
