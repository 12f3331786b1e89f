package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model/auth"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

type AuthUseCase struct {
	repo interfaces.Repository
}

func NewAuthUseCase(repo interfaces.Repository) *AuthUseCase {
	return &AuthUseCase{repo: repo}
}

// IssueToken mints a bearer token for the user and returns it together with
// the raw credential "tokenID:secret". The secret is never stored and never
// shown again.
func (uc *AuthUseCase) IssueToken(ctx context.Context, userID types.UserID, ttl time.Duration) (*auth.Token, string, error) {
	if err := validateIDs(userID); err != nil {
		return nil, "", err
	}
	if ttl <= 0 {
		return nil, "", goerr.Wrap(types.ErrValidationFailed, "token TTL must be positive")
	}

	token, secret, err := auth.NewToken(userID, ttl)
	if err != nil {
		return nil, "", err
	}
	if err := uc.repo.PutToken(ctx, token); err != nil {
		return nil, "", err
	}
	return token, string(token.ID) + ":" + secret, nil
}

// Authenticate validates a raw bearer credential and returns a context
// carrying the token's user as the actor.
func (uc *AuthUseCase) Authenticate(ctx context.Context, credential string) (context.Context, error) {
	tokenID, secret, found := strings.Cut(credential, ":")
	if !found || tokenID == "" || secret == "" {
		return nil, goerr.Wrap(types.ErrUnauthenticated, "malformed credential")
	}

	token, err := uc.repo.GetToken(ctx, auth.TokenID(tokenID))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, goerr.Wrap(types.ErrUnauthenticated, "unknown token")
		}
		return nil, err
	}
	if err := token.Verify(secret, time.Now()); err != nil {
		return nil, err
	}
	return auth.ContextWithUser(ctx, token.UserID), nil
}

// RevokeToken deletes a token. Idempotent.
func (uc *AuthUseCase) RevokeToken(ctx context.Context, tokenID auth.TokenID) error {
	return uc.repo.DeleteToken(ctx, tokenID)
}
