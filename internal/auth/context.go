package auth

import (
	"context"

	"github.com/epicevents/crm-api/internal/domain"
)

// Principal holds authenticated user information
type Principal struct {
	UserID   uint
	Fullname string
	Email    string
	Role     domain.Role
}

type contextKey string

const principalContextKey contextKey = "principal"

// WithPrincipal adds the authenticated principal to the context
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// FromContext extracts the authenticated principal from the context
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(*Principal)
	return p, ok
}

// MustFromContext extracts the principal or panics
func MustFromContext(ctx context.Context) *Principal {
	p, ok := FromContext(ctx)
	if !ok {
		panic("principal not found in context")
	}
	return p
}

// HasRole checks if the principal has a specific role
func (p *Principal) HasRole(role domain.Role) bool {
	return p.Role == role
}

// HasAnyRole checks if the principal has any of the specified roles
func (p *Principal) HasAnyRole(roles ...domain.Role) bool {
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}

// IsAdmin checks if the principal is a management user
func (p *Principal) IsAdmin() bool {
	return p.Role == domain.RoleAdmin
}

// IsSales checks if the principal is a sales user
func (p *Principal) IsSales() bool {
	return p.Role == domain.RoleSales
}

// IsSupport checks if the principal is a support user
func (p *Principal) IsSupport() bool {
	return p.Role == domain.RoleSupport
}

// PrincipalFromUser builds a principal from a stored user record
func PrincipalFromUser(user *domain.User) *Principal {
	return &Principal{
		UserID:   user.ID,
		Fullname: user.Fullname,
		Email:    user.Email,
		Role:     user.Role,
	}
}
