package auth_test

import (
	"context"
	"testing"

	"github.com/epicevents/crm-api/internal/auth"
	"github.com/epicevents/crm-api/internal/domain"
	"github.com/epicevents/crm-api/internal/repository"
	"github.com/epicevents/crm-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cure-passw0rd")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cure-passw0rd", hash)
	assert.NotEmpty(t, hash)

	// Same input must not produce the same hash twice (salted)
	other, err := auth.HashPassword("s3cure-passw0rd")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}

func TestVerifier_Verify(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	verifier := auth.NewVerifier(repo)

	user := testutil.CreateTestUser(t, db, domain.RoleSales)

	t.Run("valid credentials", func(t *testing.T) {
		got, err := verifier.Verify(context.Background(), user.Email, testutil.TestPassword)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.Email, got.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		got, err := verifier.Verify(context.Background(), user.Email, "not-the-password")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		got, err := verifier.Verify(context.Background(), "nobody@test.example", testutil.TestPassword)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email and wrong password fail alike", func(t *testing.T) {
		_, errUnknown := verifier.Verify(context.Background(), "nobody@test.example", "whatever")
		_, errWrong := verifier.Verify(context.Background(), user.Email, "whatever")
		assert.Equal(t, errUnknown, errWrong)
	})
}
