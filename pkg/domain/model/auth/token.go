package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// TokenID identifies an API token
type TokenID string

// Token is a bearer credential mapping to a user. Only the hash of the
// secret is persisted; the raw secret is shown once at issue time.
type Token struct {
	ID         TokenID      `firestore:"id"`
	SecretHash string       `firestore:"secret_hash" masq:"secret"`
	UserID     types.UserID `firestore:"user_id"`
	ExpiresAt  time.Time    `firestore:"expires_at"`
	CreatedAt  time.Time    `firestore:"created_at"`
}

// NewToken issues a token for the user and returns the token together with
// the raw secret.
func NewToken(userID types.UserID, ttl time.Duration) (*Token, string, error) {
	idBuf := make([]byte, 16)
	if _, err := rand.Read(idBuf); err != nil {
		return nil, "", goerr.Wrap(err, "failed to generate token ID")
	}
	secretBuf := make([]byte, 32)
	if _, err := rand.Read(secretBuf); err != nil {
		return nil, "", goerr.Wrap(err, "failed to generate token secret")
	}

	secret := hex.EncodeToString(secretBuf)
	now := time.Now().UTC()

	return &Token{
		ID:         TokenID(hex.EncodeToString(idBuf)),
		SecretHash: HashSecret(secret),
		UserID:     userID,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
	}, secret, nil
}

// HashSecret returns the persisted form of a token secret
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Verify checks the supplied secret against the stored hash and the expiry
func (t *Token) Verify(secret string, now time.Time) error {
	if now.After(t.ExpiresAt) {
		return goerr.Wrap(types.ErrUnauthenticated, "token expired", goerr.V("token_id", t.ID))
	}
	stored := []byte(t.SecretHash)
	supplied := []byte(HashSecret(secret))
	if subtle.ConstantTimeCompare(stored, supplied) != 1 {
		return goerr.Wrap(types.ErrUnauthenticated, "token secret mismatch")
	}
	return nil
}

type ctxUserKey struct{}

// ContextWithUser embeds the authenticated user into the context
func ContextWithUser(ctx context.Context, userID types.UserID) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, userID)
}

// UserFromContext extracts the authenticated user from the context
func UserFromContext(ctx context.Context) (types.UserID, error) {
	if userID, ok := ctx.Value(ctxUserKey{}).(types.UserID); ok && userID != "" {
		return userID, nil
	}
	return "", goerr.Wrap(types.ErrUnauthenticated, "no authenticated user in context")
}
