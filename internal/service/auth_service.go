package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/epicevents/crm-api/internal/auth"
	"github.com/epicevents/crm-api/internal/domain"
	"github.com/epicevents/crm-api/internal/repository"
)

type AuthService struct {
	verifier *auth.Verifier
	tokens   *auth.TokenManager
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewAuthService(
	verifier *auth.Verifier,
	tokens *auth.TokenManager,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		verifier: verifier,
		tokens:   tokens,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Login verifies credentials and returns a bearer token. A still-fresh
// stored token is handed back unchanged; otherwise a new one is minted.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenDTO, error) {
	user, err := s.verifier.Verify(ctx, email, password)
	if err != nil {
		s.logger.Info("login rejected", zap.String("email", email))
		return nil, ErrUnauthenticated
	}

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("login succeeded",
		zap.Uint("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)

	return &domain.TokenDTO{Token: token}, nil
}

// Logout revokes the caller's current token
func (s *AuthService) Logout(ctx context.Context) error {
	p, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return ErrUnauthenticated
	}

	if err := s.tokens.Revoke(ctx, user); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.logger.Info("logout", zap.Uint("user_id", p.UserID))
	return nil
}

// CheckAuthorization is the pre-flight capability probe. It answers with
// role-level information only; ownership can still deny at action time.
func (s *AuthService) CheckAuthorization(ctx context.Context, target string) error {
	p, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	c, err := auth.ParseCapability(target)
	if err != nil {
		return fmt.Errorf("%w: unknown target %q", ErrInvalidInput, target)
	}

	if !auth.Can(p, c) {
		return ErrPermissionDenied
	}
	return nil
}
