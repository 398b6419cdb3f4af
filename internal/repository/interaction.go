package repository

import (
	"context"
	"errors"
	"time"

	"greenlifestyle/internal/models"

	"gorm.io/gorm"
)

// InteractionRepository defines the interface for like and bookmark operations
type InteractionRepository interface {
	CreateLike(ctx context.Context, userID, tipID uint) error
	DeleteLike(ctx context.Context, userID, tipID uint) error
	LikeExists(ctx context.Context, userID, tipID uint) (bool, error)
	CountLikes(ctx context.Context, tipID uint) (int64, error)
	CountAllLikes(ctx context.Context) (int64, error)
	CountLikesSince(ctx context.Context, since time.Time) (int64, error)

	CreateBookmark(ctx context.Context, userID, tipID uint) error
	DeleteBookmark(ctx context.Context, userID, tipID uint) error
	BookmarkExists(ctx context.Context, userID, tipID uint) (bool, error)
	CountBookmarks(ctx context.Context, tipID uint) (int64, error)
}

type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) CreateLike(ctx context.Context, userID, tipID uint) error {
	return r.db.WithContext(ctx).Create(&models.Like{UserID: userID, TipID: tipID}).Error
}

func (r *interactionRepository) DeleteLike(ctx context.Context, userID, tipID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND tip_id = ?", userID, tipID).
		Delete(&models.Like{}).Error
}

func (r *interactionRepository) LikeExists(ctx context.Context, userID, tipID uint) (bool, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND tip_id = ?", userID, tipID).
		First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *interactionRepository) CountLikes(ctx context.Context, tipID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("tip_id = ?", tipID).
		Count(&n).Error
	return n, err
}

func (r *interactionRepository) CountAllLikes(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).Count(&n).Error
	return n, err
}

func (r *interactionRepository) CountLikesSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("created_at >= ?", since).
		Count(&n).Error
	return n, err
}

func (r *interactionRepository) CreateBookmark(ctx context.Context, userID, tipID uint) error {
	return r.db.WithContext(ctx).Create(&models.Bookmark{UserID: userID, TipID: tipID}).Error
}

func (r *interactionRepository) DeleteBookmark(ctx context.Context, userID, tipID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND tip_id = ?", userID, tipID).
		Delete(&models.Bookmark{}).Error
}

func (r *interactionRepository) BookmarkExists(ctx context.Context, userID, tipID uint) (bool, error) {
	var bookmark models.Bookmark
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND tip_id = ?", userID, tipID).
		First(&bookmark).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *interactionRepository) CountBookmarks(ctx context.Context, tipID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Bookmark{}).
		Where("tip_id = ?", tipID).
		Count(&n).Error
	return n, err
}
