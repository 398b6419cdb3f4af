package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"greenlifestyle/internal/cache"
	"greenlifestyle/internal/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, s string) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	ListApproved(ctx context.Context) ([]*models.Category, error)
	ListAll(ctx context.Context) ([]*models.Category, error)
	ListPending(ctx context.Context) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Approve(ctx context.Context, id, approverID uint) error
	Delete(ctx context.Context, id uint) error
	NextSlug(ctx context.Context, name string) (string, error)
	Count(ctx context.Context) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// withTipsCount attaches the published tip tally to each row.
func withTipsCount(query *gorm.DB) *gorm.DB {
	return query.Select(`categories.*,
		(SELECT COUNT(*) FROM tips WHERE tips.category_id = categories.id AND tips.is_published = ? AND tips.deleted_at IS NULL) as tips_count`,
		true)
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return err
	}
	cache.InvalidateCategories(ctx)
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	query := withTipsCount(r.db.WithContext(ctx).Model(&models.Category{}))
	if err := query.Where("categories.id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, s string) (*models.Category, error) {
	var category models.Category
	query := withTipsCount(r.db.WithContext(ctx).Model(&models.Category{}))
	if err := query.Where("categories.slug = ?", s).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// GetByName is a case-insensitive lookup used to reject duplicate proposals.
// Returns (nil, nil) when no category matches.
func (r *categoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ListApproved(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := cache.Aside(ctx, cache.CategoriesListKey, &categories, cache.CategoriesTTL, func() error {
		query := withTipsCount(r.db.WithContext(ctx).Model(&models.Category{}))
		return query.
			Where("categories.is_approved = ?", true).
			Order("categories.name ASC").
			Find(&categories).Error
	})
	return categories, err
}

func (r *categoryRepository) ListAll(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	query := withTipsCount(r.db.WithContext(ctx).Model(&models.Category{}))
	err := query.Order("categories.name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) ListPending(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	query := withTipsCount(r.db.WithContext(ctx).Model(&models.Category{}))
	err := query.
		Where("categories.is_approved = ?", false).
		Order("categories.created_at ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return err
	}
	cache.InvalidateCategories(ctx)
	return nil
}

func (r *categoryRepository) Approve(ctx context.Context, id, approverID uint) error {
	now := time.Now()
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_approved":    true,
			"approved_by_id": approverID,
			"approved_at":    now,
		}).Error
	if err != nil {
		return err
	}
	cache.InvalidateCategories(ctx)
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Category{}, id).Error; err != nil {
		return err
	}
	cache.InvalidateCategories(ctx)
	return nil
}

func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&n).Error
	return n, err
}

func (r *categoryRepository) NextSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "category"
	}

	candidate := base
	for i := 1; ; i++ {
		var n int64
		err := r.db.WithContext(ctx).Model(&models.Category{}).
			Where("slug = ?", candidate).
			Count(&n).Error
		if err != nil {
			return "", err
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
