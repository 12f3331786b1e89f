package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model/auth"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/repository/memory"
	"github.com/sprintdeck/sprintdeck/pkg/usecase"
)

func TestAuthUseCase_Tokens(t *testing.T) {
	t.Run("issued credential authenticates its user", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		token, credential, err := uc.Auth.IssueToken(ctx, "U123", time.Hour)
		gt.NoError(t, err).Required()
		gt.Value(t, token.UserID).Equal(types.UserID("U123"))

		authed, err := uc.Auth.Authenticate(ctx, credential)
		gt.NoError(t, err).Required()
		userID, err := auth.UserFromContext(authed)
		gt.NoError(t, err).Required()
		gt.Value(t, userID).Equal(types.UserID("U123"))
	})

	t.Run("malformed credential is rejected", func(t *testing.T) {
		uc := usecase.New(memory.New())
		for _, credential := range []string{"", "no-separator", ":missing-id", "missing-secret:"} {
			_, err := uc.Auth.Authenticate(context.Background(), credential)
			gt.Error(t, err)
			gt.B(t, errors.Is(err, types.ErrUnauthenticated)).True()
		}
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()
		token, _, err := uc.Auth.IssueToken(ctx, "U123", time.Hour)
		gt.NoError(t, err).Required()

		_, err = uc.Auth.Authenticate(ctx, string(token.ID)+":wrong")
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrUnauthenticated)).True()
	})

	t.Run("revoked token no longer authenticates", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()
		token, credential, err := uc.Auth.IssueToken(ctx, "U123", time.Hour)
		gt.NoError(t, err).Required()

		gt.NoError(t, uc.Auth.RevokeToken(ctx, token.ID))

		_, err = uc.Auth.Authenticate(ctx, credential)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrUnauthenticated)).True()
	})

	t.Run("non-positive TTL fails validation", func(t *testing.T) {
		uc := usecase.New(memory.New())
		_, _, err := uc.Auth.IssueToken(context.Background(), "U123", 0)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, types.ErrValidationFailed)).True()
	})
}
