package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"greenlifestyle/internal/models"
	"greenlifestyle/internal/observability"
	"greenlifestyle/internal/repository"
	"greenlifestyle/internal/validation"

	"gorm.io/gorm"
)

type TipService struct {
	tipRepo      repository.TipRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
}

type CreateTipInput struct {
	AuthorID     uint
	Title        string
	Content      string
	ImageURL     string
	ImageSize    int64
	CategoryID   *uint
	CategoryName string
	Draft        bool
}

type UpdateTipInput struct {
	UserID     uint
	TipID      uint
	Title      *string
	Content    *string
	ImageURL   *string
	ImageSize  int64
	CategoryID *uint
	Published  *bool
}

type ListTipsInput struct {
	CategorySlug  string
	Search        string
	DateRange     string // "7d", "30d" or empty
	Sort          string // newest, oldest, most_liked, most_commented
	CurrentUserID uint
	Limit         int
	Offset        int
}

func NewTipService(tipRepo repository.TipRepository, categoryRepo repository.CategoryRepository, userRepo repository.UserRepository) *TipService {
	return &TipService{tipRepo: tipRepo, categoryRepo: categoryRepo, userRepo: userRepo}
}

func (s *TipService) validateContent(title, content string) error {
	if err := validation.ValidateTipTitle(title); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.ValidateTipContent(content); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}

// resolveCategory only accepts approved categories on tips.
func (s *TipService) resolveCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewValidationError("Category does not exist")
	}
	if err != nil {
		return nil, err
	}
	if !category.IsApproved {
		return nil, models.NewValidationError("Category is awaiting approval")
	}
	return category, nil
}

// categoryFromName attaches an existing approved category by name, or files a
// fresh one into the moderation queue under the tip author's name. Moderator
// and admin authors get theirs approved on the spot.
func (s *TipService) categoryFromName(ctx context.Context, name string, authorID uint) (*models.Category, error) {
	if err := validation.ValidateCategoryName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if !existing.IsApproved {
			return nil, models.NewValidationError("Category is awaiting approval")
		}
		return existing, nil
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	slugVal, err := s.categoryRepo.NextSlug(ctx, name)
	if err != nil {
		return nil, err
	}

	category := &models.Category{Name: name, Slug: slugVal, CreatedByID: &author.ID}
	if author.IsModerator() {
		category.IsApproved = true
		category.ApprovedByID = &author.ID
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *TipService) Create(ctx context.Context, in CreateTipInput) (*models.Tip, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if err := s.validateContent(title, content); err != nil {
		return nil, err
	}
	if in.ImageURL != "" {
		if err := validation.ValidateImage(in.ImageURL, in.ImageSize); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	tip := &models.Tip{
		Title:       title,
		Content:     content,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		AuthorID:    in.AuthorID,
		IsPublished: !in.Draft,
	}
	if in.CategoryID != nil {
		category, err := s.resolveCategory(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		tip.CategoryID = &category.ID
	} else if name := strings.TrimSpace(in.CategoryName); name != "" {
		category, err := s.categoryFromName(ctx, name, in.AuthorID)
		if err != nil {
			return nil, err
		}
		tip.CategoryID = &category.ID
	}

	slugVal, err := s.tipRepo.NextSlug(ctx, title, 0)
	if err != nil {
		return nil, err
	}
	tip.Slug = slugVal

	if err := s.tipRepo.Create(ctx, tip); err != nil {
		return nil, err
	}
	observability.TipsPublished.WithLabelValues(publishedLabel(tip.IsPublished)).Inc()

	if _, err := s.userRepo.RefreshStats(ctx, in.AuthorID); err != nil {
		return nil, err
	}
	return s.tipRepo.GetByID(ctx, tip.ID, in.AuthorID)
}

// Get returns the tip behind a slug. Drafts are visible only to their author
// and to moderators; everyone else gets a not-found, not a forbidden, so the
// existence of the draft is not leaked.
func (s *TipService) Get(ctx context.Context, slugVal string, currentUserID uint, viewerIsModerator bool) (*models.Tip, error) {
	tip, err := s.tipRepo.GetBySlug(ctx, slugVal, currentUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("tip", slugVal)
	}
	if err != nil {
		return nil, err
	}
	if !tip.IsPublished && tip.AuthorID != currentUserID && !viewerIsModerator {
		return nil, models.NewNotFoundError("tip", slugVal)
	}
	return tip, nil
}

func sinceForDateRange(dateRange string) (time.Time, error) {
	switch dateRange {
	case "":
		return time.Time{}, nil
	case "7d":
		return time.Now().AddDate(0, 0, -7), nil
	case "30d":
		return time.Now().AddDate(0, 0, -30), nil
	default:
		return time.Time{}, models.NewValidationError("Invalid date_range (use 7d or 30d)")
	}
}

func validSort(sort string) bool {
	switch sort {
	case "", "newest", "oldest", "most_liked", "most_commented":
		return true
	}
	return false
}

func (s *TipService) List(ctx context.Context, in ListTipsInput) ([]*models.Tip, int64, error) {
	since, err := sinceForDateRange(in.DateRange)
	if err != nil {
		return nil, 0, err
	}
	if !validSort(in.Sort) {
		return nil, 0, models.NewValidationError("Invalid sort option")
	}

	filter := repository.TipFilter{
		CategorySlug:  in.CategorySlug,
		Search:        strings.TrimSpace(in.Search),
		Since:         since,
		Sort:          in.Sort,
		PublishedOnly: true,
	}
	return s.tipRepo.List(ctx, filter, in.CurrentUserID, in.Limit, in.Offset)
}

// ListMine includes the author's drafts.
func (s *TipService) ListMine(ctx context.Context, userID uint, limit, offset int) ([]*models.Tip, int64, error) {
	filter := repository.TipFilter{AuthorID: userID}
	return s.tipRepo.List(ctx, filter, userID, limit, offset)
}

func (s *TipService) ListByAuthor(ctx context.Context, username string, currentUserID uint, limit, offset int) ([]*models.Tip, int64, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, models.NewNotFoundError("user", username)
	}
	if err != nil {
		return nil, 0, err
	}
	filter := repository.TipFilter{AuthorID: author.ID, PublishedOnly: true}
	return s.tipRepo.List(ctx, filter, currentUserID, limit, offset)
}

func (s *TipService) ListSaved(ctx context.Context, userID uint, limit, offset int) ([]*models.Tip, int64, error) {
	return s.tipRepo.ListBookmarked(ctx, userID, limit, offset)
}

func (s *TipService) ListRelated(ctx context.Context, slugVal string, currentUserID uint, limit int) ([]*models.Tip, error) {
	tip, err := s.tipRepo.GetBySlug(ctx, slugVal, 0)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("tip", slugVal)
	}
	if err != nil {
		return nil, err
	}
	return s.tipRepo.ListRelated(ctx, tip, currentUserID, limit)
}

// Update lets the author edit their tip, nobody else. The slug never changes
// after creation, so shared links keep working.
func (s *TipService) Update(ctx context.Context, in UpdateTipInput) (*models.Tip, error) {
	tip, err := s.tipRepo.GetByID(ctx, in.TipID, in.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("tip", "")
	}
	if err != nil {
		return nil, err
	}
	if tip.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own tips")
	}

	wasPublished := tip.IsPublished

	if in.Title != nil {
		tip.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		tip.Content = strings.TrimSpace(*in.Content)
	}
	if err := s.validateContent(tip.Title, tip.Content); err != nil {
		return nil, err
	}
	if in.ImageURL != nil {
		if *in.ImageURL != "" {
			if err := validation.ValidateImage(*in.ImageURL, in.ImageSize); err != nil {
				return nil, models.NewValidationError(err.Error())
			}
		}
		tip.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.CategoryID != nil {
		if *in.CategoryID == 0 {
			tip.CategoryID = nil
		} else {
			category, err := s.resolveCategory(ctx, *in.CategoryID)
			if err != nil {
				return nil, err
			}
			tip.CategoryID = &category.ID
		}
	}
	if in.Published != nil {
		tip.IsPublished = *in.Published
	}

	if err := s.tipRepo.Update(ctx, tip); err != nil {
		return nil, err
	}
	if wasPublished != tip.IsPublished {
		if _, err := s.userRepo.RefreshStats(ctx, tip.AuthorID); err != nil {
			return nil, err
		}
	}
	return s.tipRepo.GetByID(ctx, tip.ID, in.UserID)
}

// Delete removes the author's own tip. viaAdmin is reserved for the
// administration surface, which may remove anyone's.
func (s *TipService) Delete(ctx context.Context, tipID, userID uint, viaAdmin bool) error {
	tip, err := s.tipRepo.GetByID(ctx, tipID, 0)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("tip", "")
	}
	if err != nil {
		return err
	}
	if tip.AuthorID != userID && !viaAdmin {
		return models.NewForbiddenError("You can only delete your own tips")
	}

	if err := s.tipRepo.Delete(ctx, tipID); err != nil {
		return err
	}
	_, err = s.userRepo.RefreshStats(ctx, tip.AuthorID)
	return err
}

// SetPublished is the moderation lever for hiding or restoring a tip.
func (s *TipService) SetPublished(ctx context.Context, tipID uint, published bool) (*models.Tip, error) {
	tip, err := s.tipRepo.GetByID(ctx, tipID, 0)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("tip", "")
	}
	if err != nil {
		return nil, err
	}
	if tip.IsPublished == published {
		return tip, nil
	}

	if err := s.tipRepo.SetPublished(ctx, tipID, published); err != nil {
		return nil, err
	}
	observability.TipsPublished.WithLabelValues(publishedLabel(published)).Inc()
	if _, err := s.userRepo.RefreshStats(ctx, tip.AuthorID); err != nil {
		return nil, err
	}
	return s.tipRepo.GetByID(ctx, tipID, 0)
}

func publishedLabel(published bool) string {
	if published {
		return "published"
	}
	return "draft"
}
