package service

import (
	"context"
	"errors"
	"strings"

	"greenlifestyle/internal/models"
	"greenlifestyle/internal/repository"
	"greenlifestyle/internal/validation"

	"gorm.io/gorm"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
}

type ProposeCategoryInput struct {
	UserID      uint
	Name        string
	Description string
	Icon        string
}

type UpdateCategoryInput struct {
	CategoryID  uint
	Name        *string
	Description *string
	Icon        *string
}

func NewCategoryService(categoryRepo repository.CategoryRepository, userRepo repository.UserRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, userRepo: userRepo}
}

// Propose creates a category. Proposals from moderators and admins go live
// immediately; everyone else's wait in the moderation queue.
func (s *CategoryService) Propose(ctx context.Context, in ProposeCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if err := validation.ValidateCategoryName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.Icon != "" {
		if err := validation.ValidateCategoryIcon(in.Icon); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("A category with this name already exists")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("user", "")
	}
	if err != nil {
		return nil, err
	}

	slugVal, err := s.categoryRepo.NextSlug(ctx, name)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        name,
		Slug:        slugVal,
		Description: strings.TrimSpace(in.Description),
		CreatedByID: &user.ID,
	}
	if in.Icon != "" {
		category.Icon = in.Icon
	}
	if user.IsModerator() {
		category.IsApproved = true
		category.ApprovedByID = &user.ID
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) ListApproved(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.ListApproved(ctx)
}

func (s *CategoryService) ListPending(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.ListPending(ctx)
}

// GetBySlug hides unapproved categories from regular users.
func (s *CategoryService) GetBySlug(ctx context.Context, slugVal string, viewerIsModerator bool) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slugVal)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("category", slugVal)
	}
	if err != nil {
		return nil, err
	}
	if !category.IsApproved && !viewerIsModerator {
		return nil, models.NewNotFoundError("category", slugVal)
	}
	return category, nil
}

func (s *CategoryService) Approve(ctx context.Context, categoryID, approverID uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("category", "")
	}
	if err != nil {
		return nil, err
	}
	if category.IsApproved {
		return category, nil
	}
	if err := s.categoryRepo.Approve(ctx, categoryID, approverID); err != nil {
		return nil, err
	}
	return s.categoryRepo.GetByID(ctx, categoryID)
}

func (s *CategoryService) Update(ctx context.Context, in UpdateCategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("category", "")
	}
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validation.ValidateCategoryName(name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if !strings.EqualFold(name, category.Name) {
			existing, err := s.categoryRepo.GetByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != category.ID {
				return nil, models.NewValidationError("A category with this name already exists")
			}
		}
		category.Name = name
	}
	if in.Description != nil {
		category.Description = strings.TrimSpace(*in.Description)
	}
	if in.Icon != nil {
		if err := validation.ValidateCategoryIcon(*in.Icon); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		category.Icon = *in.Icon
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, categoryID uint) error {
	_, err := s.categoryRepo.GetByID(ctx, categoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("category", "")
	}
	if err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, categoryID)
}
