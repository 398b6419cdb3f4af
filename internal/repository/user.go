// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"greenlifestyle/internal/cache"
	"greenlifestyle/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	SetActive(ctx context.Context, id uint, active bool) error
	SetRole(ctx context.Context, id uint, role models.Role) error
	RefreshStats(ctx context.Context, id uint) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no account matches, so callers can
// distinguish "not registered" from database failures.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	cache.InvalidateUser(ctx, user.ID)
	cache.InvalidateProfile(ctx, user.Username)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	r.invalidate(ctx, id)
	if err := r.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return err
	}
	return nil
}

// invalidate clears both cache entries for a user. The profile entry is
// keyed by username, so the row is read before it changes.
func (r *userRepository) invalidate(ctx context.Context, id uint) {
	cache.InvalidateUser(ctx, id)
	var user models.User
	if err := r.db.WithContext(ctx).Select("username").First(&user, id).Error; err == nil {
		cache.InvalidateProfile(ctx, user.Username)
	}
}

func (r *userRepository) SetActive(ctx context.Context, id uint, active bool) error {
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", active).Error
	if err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *userRepository) SetRole(ctx context.Context, id uint, role models.Role) error {
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role).Error
	if err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// RefreshStats recomputes the denormalized counters and the impact score for
// the given user from the source tables and writes them back. Best-effort
// consistency: concurrent writers may interleave, which is acceptable here.
func (r *userRepository) RefreshStats(ctx context.Context, id uint) (*models.User, error) {
	db := r.db.WithContext(ctx)

	var tips int64
	if err := db.Model(&models.Tip{}).
		Where("author_id = ? AND is_published = ?", id, true).
		Count(&tips).Error; err != nil {
		return nil, err
	}

	var followers int64
	if err := db.Model(&models.Follow{}).
		Where("following_id = ?", id).
		Count(&followers).Error; err != nil {
		return nil, err
	}

	var following int64
	if err := db.Model(&models.Follow{}).
		Where("follower_id = ?", id).
		Count(&following).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"tips_count":      int(tips),
		"followers_count": int(followers),
		"following_count": int(following),
		"impact_score":    models.ComputeImpactScore(int(tips), int(followers)),
	}
	if err := db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)

	return r.GetByID(ctx, id)
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

func (r *userRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("created_at >= ?", since).
		Count(&n).Error
	return n, err
}
