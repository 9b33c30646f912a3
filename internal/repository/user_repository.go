package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/epicevents/crm-api/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "token = ?", token).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveToken replaces the user's token pair in a single update. A zero
// token clears both columns.
func (r *UserRepository) SaveToken(ctx context.Context, userID uint, token domain.AuthToken) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"token":        nullableString(token.Value),
			"token_expiry": token.Expiry,
		}).Error
}

// ClearExpiredTokens nulls out every token whose expiry has passed.
// Returns the number of users affected.
func (r *UserRepository) ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("token IS NOT NULL AND token_expiry < ?", now).
		Updates(map[string]interface{}{
			"token":        nil,
			"token_expiry": nil,
		})
	return res.RowsAffected, res.Error
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id).Error
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

// Taken reports whether another user already uses the given fullname or
// email. excludeID skips the user being updated.
func (r *UserRepository) Taken(ctx context.Context, fullname, email string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("fullname = ? OR email = ?", fullname, email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// nullableString maps an empty string to NULL so the unique index on the
// token column never collides on cleared tokens.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
