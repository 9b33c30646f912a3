package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/epicevents/crm-api/internal/domain"
)

// ErrInvalidCredentials is returned for any credential failure.
// Unknown email and wrong password produce the same error so the
// response does not reveal which part was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verifier checks user credentials against stored password hashes
type Verifier struct {
	store UserStore
}

// NewVerifier creates a new credential verifier
func NewVerifier(store UserStore) *Verifier {
	return &Verifier{store: store}
}

// Verify looks up the user by email and checks the password.
// Returns the user on success, ErrInvalidCredentials otherwise.
func (v *Verifier) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := v.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
