package repository

import (
	"context"
	"fmt"
	"time"

	"greenlifestyle/internal/cache"
	"greenlifestyle/internal/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// TipFilter narrows and orders tip listings.
type TipFilter struct {
	CategorySlug  string
	AuthorID      uint
	Search        string
	Since         time.Time // zero means no lower bound
	Sort          string    // newest, oldest, most_liked, most_commented
	PublishedOnly bool
}

// TipRepository defines the interface for tip data operations
type TipRepository interface {
	Create(ctx context.Context, tip *models.Tip) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Tip, error)
	GetBySlug(ctx context.Context, s string, currentUserID uint) (*models.Tip, error)
	List(ctx context.Context, filter TipFilter, currentUserID uint, limit, offset int) ([]*models.Tip, int64, error)
	ListRelated(ctx context.Context, tip *models.Tip, currentUserID uint, limit int) ([]*models.Tip, error)
	ListBookmarked(ctx context.Context, userID uint, limit, offset int) ([]*models.Tip, int64, error)
	Update(ctx context.Context, tip *models.Tip) error
	Delete(ctx context.Context, id uint) error
	SetPublished(ctx context.Context, id uint, published bool) error
	NextSlug(ctx context.Context, title string, excludeID uint) (string, error)
	Count(ctx context.Context, publishedOnly bool) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type tipRepository struct {
	db *gorm.DB
}

// NewTipRepository creates a new tip repository
func NewTipRepository(db *gorm.DB) TipRepository {
	return &tipRepository{db: db}
}

// applyTipDetails adds subqueries so counts and the current user's
// liked/bookmarked state arrive with the row in a single query.
func applyTipDetails(query *gorm.DB, currentUserID uint) *gorm.DB {
	query = query.
		Select(`tips.*,
			(SELECT COUNT(*) FROM likes WHERE likes.tip_id = tips.id) as likes_count,
			(SELECT COUNT(*) FROM comments WHERE comments.tip_id = tips.id AND comments.deleted_at IS NULL) as comments_count`)

	if currentUserID != 0 {
		query = query.
			Select(`tips.*,
				(SELECT COUNT(*) FROM likes WHERE likes.tip_id = tips.id) as likes_count,
				(SELECT COUNT(*) FROM comments WHERE comments.tip_id = tips.id AND comments.deleted_at IS NULL) as comments_count,
				EXISTS(SELECT 1 FROM likes WHERE likes.tip_id = tips.id AND likes.user_id = ?) as liked,
				EXISTS(SELECT 1 FROM bookmarks WHERE bookmarks.tip_id = tips.id AND bookmarks.user_id = ?) as bookmarked`,
				currentUserID, currentUserID)
	}

	return query.
		Preload("Author").
		Preload("Category")
}

func (r *tipRepository) Create(ctx context.Context, tip *models.Tip) error {
	return r.db.WithContext(ctx).Create(tip).Error
}

func (r *tipRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Tip, error) {
	var tip models.Tip
	query := applyTipDetails(r.db.WithContext(ctx).Model(&models.Tip{}), currentUserID)
	if err := query.Where("tips.id = ?", id).First(&tip).Error; err != nil {
		return nil, err
	}
	return &tip, nil
}

func (r *tipRepository) GetBySlug(ctx context.Context, s string, currentUserID uint) (*models.Tip, error) {
	var tip models.Tip
	query := applyTipDetails(r.db.WithContext(ctx).Model(&models.Tip{}), currentUserID)
	if err := query.Where("tips.slug = ?", s).First(&tip).Error; err != nil {
		return nil, err
	}
	return &tip, nil
}

// activeAuthorsOnly hides tips whose author is deactivated or deleted.
func activeAuthorsOnly(query *gorm.DB) *gorm.DB {
	return query.Where("tips.author_id IN (SELECT id FROM users WHERE is_active = ? AND deleted_at IS NULL)", true)
}

func (r *tipRepository) applyFilter(query *gorm.DB, filter TipFilter) *gorm.DB {
	if filter.PublishedOnly {
		query = activeAuthorsOnly(query.Where("tips.is_published = ?", true))
	}
	if filter.AuthorID != 0 {
		query = query.Where("tips.author_id = ?", filter.AuthorID)
	}
	if filter.CategorySlug != "" {
		query = query.
			Joins("JOIN categories ON categories.id = tips.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(tips.title) LIKE LOWER(?) OR LOWER(tips.content) LIKE LOWER(?)", pattern, pattern)
	}
	if !filter.Since.IsZero() {
		query = query.Where("tips.created_at >= ?", filter.Since)
	}
	return query
}

func applyTipSort(query *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "oldest":
		return query.Order("tips.created_at ASC")
	case "most_liked":
		return query.Order("likes_count DESC, tips.created_at DESC")
	case "most_commented":
		return query.Order("comments_count DESC, tips.created_at DESC")
	default:
		return query.Order("tips.created_at DESC")
	}
}

func (r *tipRepository) List(ctx context.Context, filter TipFilter, currentUserID uint, limit, offset int) ([]*models.Tip, int64, error) {
	var total int64
	countQuery := r.applyFilter(r.db.WithContext(ctx).Model(&models.Tip{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tips []*models.Tip
	query := applyTipDetails(r.db.WithContext(ctx).Model(&models.Tip{}), currentUserID)
	query = r.applyFilter(query, filter)
	query = applyTipSort(query, filter.Sort)
	if err := query.Limit(limit).Offset(offset).Find(&tips).Error; err != nil {
		return nil, 0, err
	}
	return tips, total, nil
}

// ListRelated returns published tips sharing the category, excluding the tip
// itself, newest first.
func (r *tipRepository) ListRelated(ctx context.Context, tip *models.Tip, currentUserID uint, limit int) ([]*models.Tip, error) {
	if tip.CategoryID == nil {
		return []*models.Tip{}, nil
	}
	var tips []*models.Tip
	query := applyTipDetails(r.db.WithContext(ctx).Model(&models.Tip{}), currentUserID)
	err := activeAuthorsOnly(query).
		Where("tips.category_id = ? AND tips.id != ? AND tips.is_published = ?", *tip.CategoryID, tip.ID, true).
		Order("tips.created_at DESC").
		Limit(limit).
		Find(&tips).Error
	return tips, err
}

func (r *tipRepository) ListBookmarked(ctx context.Context, userID uint, limit, offset int) ([]*models.Tip, int64, error) {
	base := activeAuthorsOnly(r.db.WithContext(ctx).Model(&models.Tip{}).
		Joins("JOIN bookmarks ON bookmarks.tip_id = tips.id").
		Where("bookmarks.user_id = ? AND tips.is_published = ?", userID, true))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tips []*models.Tip
	query := applyTipDetails(base, userID)
	err := query.
		Order("bookmarks.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tips).Error
	if err != nil {
		return nil, 0, err
	}
	return tips, total, nil
}

func (r *tipRepository) Update(ctx context.Context, tip *models.Tip) error {
	if err := r.db.WithContext(ctx).Save(tip).Error; err != nil {
		return err
	}
	cache.InvalidateTip(ctx, tip.Slug)
	return nil
}

func (r *tipRepository) Delete(ctx context.Context, id uint) error {
	var tip models.Tip
	if err := r.db.WithContext(ctx).Select("id", "slug").First(&tip, id).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Tip{}, id).Error; err != nil {
		return err
	}
	cache.InvalidateTip(ctx, tip.Slug)
	return nil
}

func (r *tipRepository) SetPublished(ctx context.Context, id uint, published bool) error {
	var tip models.Tip
	if err := r.db.WithContext(ctx).Select("id", "slug").First(&tip, id).Error; err != nil {
		return err
	}
	err := r.db.WithContext(ctx).
		Model(&models.Tip{}).
		Where("id = ?", id).
		Update("is_published", published).Error
	if err != nil {
		return err
	}
	cache.InvalidateTip(ctx, tip.Slug)
	return nil
}

// NextSlug derives a URL slug from the title and appends -1, -2, ... until it
// is unique. Soft-deleted rows still hold their slugs, hence Unscoped.
func (r *tipRepository) NextSlug(ctx context.Context, title string, excludeID uint) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "tip"
	}

	candidate := base
	for i := 1; ; i++ {
		var n int64
		query := r.db.WithContext(ctx).Unscoped().Model(&models.Tip{}).Where("slug = ?", candidate)
		if excludeID != 0 {
			query = query.Where("id != ?", excludeID)
		}
		if err := query.Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (r *tipRepository) Count(ctx context.Context, publishedOnly bool) (int64, error) {
	var n int64
	query := r.db.WithContext(ctx).Model(&models.Tip{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	err := query.Count(&n).Error
	return n, err
}

func (r *tipRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Tip{}).
		Where("created_at >= ?", since).
		Count(&n).Error
	return n, err
}
