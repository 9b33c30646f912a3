package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/epicevents/crm-api/internal/auth"
	"github.com/epicevents/crm-api/internal/domain"
	"github.com/epicevents/crm-api/internal/mapper"
	"github.com/epicevents/crm-api/internal/repository"
)

type UserService struct {
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo *repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *UserService) List(ctx context.Context) ([]domain.UserDTO, error) {
	if _, err := authorize(ctx, auth.CapUsersList, nil); err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	dtos := make([]domain.UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, mapper.ToUserDTO(&users[i]))
	}
	return dtos, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*domain.UserDTO, error) {
	if _, err := authorize(ctx, auth.CapUsersGet, nil); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "user")
	}

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

func (s *UserService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.UserDTO, error) {
	p, err := authorize(ctx, auth.CapUsersCreate, nil)
	if err != nil {
		return nil, err
	}

	taken, err := s.userRepo.Taken(ctx, req.Fullname, req.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check uniqueness: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: fullname or email already in use", ErrDuplicate)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Fullname:     req.Fullname,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         req.Role,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created",
		zap.Uint("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.Uint("created_by", p.UserID),
	)

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

func (s *UserService) Update(ctx context.Context, id uint, req *domain.UpdateUserRequest) (*domain.UserDTO, error) {
	p, err := authorize(ctx, auth.CapUsersUpdate, nil)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "user")
	}

	fullname := user.Fullname
	email := user.Email
	if req.Fullname != nil {
		fullname = *req.Fullname
	}
	if req.Email != nil {
		email = *req.Email
	}
	if fullname != user.Fullname || email != user.Email {
		taken, err := s.userRepo.Taken(ctx, fullname, email, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check uniqueness: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: fullname or email already in use", ErrDuplicate)
		}
	}

	user.Fullname = fullname
	user.Email = email
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("user updated",
		zap.Uint("user_id", user.ID),
		zap.Uint("updated_by", p.UserID),
	)

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	p, err := authorize(ctx, auth.CapUsersDelete, nil)
	if err != nil {
		return err
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return wrapNotFound(err, "user")
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("user deleted",
		zap.Uint("user_id", id),
		zap.Uint("deleted_by", p.UserID),
	)
	return nil
}
