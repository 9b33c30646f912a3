package auth_test

import (
	"context"
	"testing"

	"github.com/epicevents/crm-api/internal/auth"
	"github.com/epicevents/crm-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipalContext(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		p := principal(42, domain.RoleSales)
		ctx := auth.WithPrincipal(context.Background(), p)

		got, ok := auth.FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, p, got)
	})

	t.Run("missing principal", func(t *testing.T) {
		got, ok := auth.FromContext(context.Background())
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("must panics without principal", func(t *testing.T) {
		assert.Panics(t, func() {
			auth.MustFromContext(context.Background())
		})
	})
}

func TestPrincipalRoleHelpers(t *testing.T) {
	admin := principal(1, domain.RoleAdmin)
	sales := principal(2, domain.RoleSales)
	support := principal(3, domain.RoleSupport)

	assert.True(t, admin.IsAdmin())
	assert.False(t, admin.IsSales())
	assert.True(t, sales.IsSales())
	assert.True(t, support.IsSupport())

	assert.True(t, sales.HasRole(domain.RoleSales))
	assert.False(t, sales.HasRole(domain.RoleAdmin))

	assert.True(t, support.HasAnyRole(domain.RoleAdmin, domain.RoleSupport))
	assert.False(t, support.HasAnyRole(domain.RoleAdmin, domain.RoleSales))
}

func TestPrincipalFromUser(t *testing.T) {
	user := &domain.User{
		ID:       7,
		Fullname: "Aliénor Vichum",
		Email:    "alienor@test.example",
		Role:     domain.RoleSupport,
	}

	p := auth.PrincipalFromUser(user)
	assert.Equal(t, uint(7), p.UserID)
	assert.Equal(t, "Aliénor Vichum", p.Fullname)
	assert.Equal(t, "alienor@test.example", p.Email)
	assert.Equal(t, domain.RoleSupport, p.Role)
}
