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

type CommentService struct {
	commentRepo repository.CommentRepository
	tipRepo     repository.TipRepository
	userRepo    repository.UserRepository
}

func NewCommentService(commentRepo repository.CommentRepository, tipRepo repository.TipRepository, userRepo repository.UserRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, tipRepo: tipRepo, userRepo: userRepo}
}

func (s *CommentService) Add(ctx context.Context, userID uint, tipSlug, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if err := validation.ValidateComment(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	tip, err := s.tipRepo.GetBySlug(ctx, tipSlug, 0)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("tip", tipSlug)
	}
	if err != nil {
		return nil, err
	}
	if !tip.IsPublished {
		return nil, models.NewNotFoundError("tip", tipSlug)
	}

	comment := &models.Comment{TipID: tip.ID, AuthorID: userID, Content: content}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Keep the denormalized stats of both parties fresh.
	if _, err := s.userRepo.RefreshStats(ctx, userID); err != nil {
		return nil, err
	}
	if tip.AuthorID != userID {
		if _, err := s.userRepo.RefreshStats(ctx, tip.AuthorID); err != nil {
			return nil, err
		}
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) List(ctx context.Context, tipSlug string, limit, offset int) ([]*models.Comment, int64, error) {
	tip, err := s.tipRepo.GetBySlug(ctx, tipSlug, 0)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, models.NewNotFoundError("tip", tipSlug)
	}
	if err != nil {
		return nil, 0, err
	}
	if !tip.IsPublished {
		return nil, 0, models.NewNotFoundError("tip", tipSlug)
	}
	return s.commentRepo.ListByTip(ctx, tip.ID, limit, offset)
}

// Update is author-only; moderation removes comments rather than rewriting
// them.
func (s *CommentService) Update(ctx context.Context, commentID, userID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if err := validation.ValidateComment(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("comment", "")
	}
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, models.NewForbiddenError("You can only edit your own comments")
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete is author-only as well. Not even the tip author may remove someone
// else's comment from their thread.
func (s *CommentService) Delete(ctx context.Context, commentID, userID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("comment", "")
	}
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return models.NewForbiddenError("You can only delete your own comments")
	}

	return s.commentRepo.Delete(ctx, commentID)
}
