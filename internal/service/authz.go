package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/epicevents/crm-api/internal/auth"
)

// requirePrincipal extracts the authenticated principal or fails with
// ErrUnauthenticated
func requirePrincipal(ctx context.Context) (*auth.Principal, error) {
	p, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return p, nil
}

// authorize runs the capability matrix for the principal in ctx.
// Every denial maps to ErrPermissionDenied; the distinction between role
// and ownership failures stays in the logs, not the response.
func authorize(ctx context.Context, c auth.Capability, res any) (*auth.Principal, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(p, c, res); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, c)
	}
	return p, nil
}

// wrapNotFound translates gorm's record-not-found into the service
// sentinel, leaving other repository errors wrapped as-is
func wrapNotFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}
