package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/epicevents/crm-api/internal/domain"
)

// ErrInvalidToken is returned for any token failure. Unknown tokens and
// expired tokens produce the same error.
var ErrInvalidToken = errors.New("invalid or expired token")

// UserStore is the persistence surface the auth package needs.
// Implemented by repository.UserRepository.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByToken(ctx context.Context, token string) (*domain.User, error)
	SaveToken(ctx context.Context, userID uint, token domain.AuthToken) error
}

// TokenManager issues, validates and revokes opaque bearer tokens.
// Tokens are random hex strings persisted on the user record; validity
// is decided purely by the stored expiry.
type TokenManager struct {
	store       UserStore
	ttl         time.Duration
	reuseWindow time.Duration
	now         func() time.Time
}

// NewTokenManager creates a new token manager
func NewTokenManager(store UserStore, ttl, reuseWindow time.Duration) *TokenManager {
	return &TokenManager{
		store:       store,
		ttl:         ttl,
		reuseWindow: reuseWindow,
		now:         time.Now,
	}
}

// Issue returns a token for the user. If the stored token still has more
// than the reuse window left, it is returned as-is with its original
// expiry; otherwise a fresh token is minted and the old one stops working.
func (m *TokenManager) Issue(ctx context.Context, user *domain.User) (string, error) {
	now := m.now()

	if user.Token.Reusable(now, m.reuseWindow) {
		return user.Token.Value, nil
	}

	value, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	expiry := now.Add(m.ttl)
	token := domain.AuthToken{Value: value, Expiry: &expiry}

	if err := m.store.SaveToken(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("failed to persist token: %w", err)
	}

	user.Token = token
	return value, nil
}

// Validate resolves a token to its user. A token past its expiry is
// rejected even by a second, so clock skew is not tolerated here.
func (m *TokenManager) Validate(ctx context.Context, value string) (*domain.User, error) {
	if value == "" {
		return nil, ErrInvalidToken
	}

	user, err := m.store.GetByToken(ctx, value)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if !user.Token.Valid(m.now()) {
		return nil, ErrInvalidToken
	}

	return user, nil
}

// Revoke clears the user's stored token so it can no longer authenticate
func (m *TokenManager) Revoke(ctx context.Context, user *domain.User) error {
	cleared := domain.AuthToken{}
	if err := m.store.SaveToken(ctx, user.ID, cleared); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	user.Token = cleared
	return nil
}

// generateToken returns 16 random bytes hex-encoded (32 characters)
func generateToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
