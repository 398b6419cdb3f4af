package service

import (
	"context"
	"errors"

	"greenlifestyle/internal/models"
	"greenlifestyle/internal/observability"
	"greenlifestyle/internal/repository"

	"gorm.io/gorm"
)

type InteractionService struct {
	interactionRepo repository.InteractionRepository
	tipRepo         repository.TipRepository
}

// ToggleResult reports the state after a like or bookmark toggle.
type ToggleResult struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

func NewInteractionService(interactionRepo repository.InteractionRepository, tipRepo repository.TipRepository) *InteractionService {
	return &InteractionService{interactionRepo: interactionRepo, tipRepo: tipRepo}
}

// publishedTip resolves a slug to a tip that readers are allowed to interact
// with. Drafts read as missing.
func (s *InteractionService) publishedTip(ctx context.Context, slugVal string) (*models.Tip, error) {
	tip, err := s.tipRepo.GetBySlug(ctx, slugVal, 0)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("tip", slugVal)
	}
	if err != nil {
		return nil, err
	}
	if !tip.IsPublished {
		return nil, models.NewNotFoundError("tip", slugVal)
	}
	return tip, nil
}

func (s *InteractionService) ToggleLike(ctx context.Context, userID uint, slugVal string) (*ToggleResult, error) {
	tip, err := s.publishedTip(ctx, slugVal)
	if err != nil {
		return nil, err
	}

	exists, err := s.interactionRepo.LikeExists(ctx, userID, tip.ID)
	if err != nil {
		return nil, err
	}

	if exists {
		if err := s.interactionRepo.DeleteLike(ctx, userID, tip.ID); err != nil {
			return nil, err
		}
	} else {
		if err := s.interactionRepo.CreateLike(ctx, userID, tip.ID); err != nil {
			// Lost a race against another toggle for the same pair. The
			// like is present either way, report it as such.
			if present, checkErr := s.interactionRepo.LikeExists(ctx, userID, tip.ID); checkErr != nil || !present {
				return nil, err
			}
		}
	}

	count, err := s.interactionRepo.CountLikes(ctx, tip.ID)
	if err != nil {
		return nil, err
	}
	observability.InteractionToggles.WithLabelValues("like", toggleState(!exists)).Inc()
	return &ToggleResult{Active: !exists, Count: count}, nil
}

func (s *InteractionService) ToggleBookmark(ctx context.Context, userID uint, slugVal string) (*ToggleResult, error) {
	tip, err := s.publishedTip(ctx, slugVal)
	if err != nil {
		return nil, err
	}

	exists, err := s.interactionRepo.BookmarkExists(ctx, userID, tip.ID)
	if err != nil {
		return nil, err
	}

	if exists {
		if err := s.interactionRepo.DeleteBookmark(ctx, userID, tip.ID); err != nil {
			return nil, err
		}
	} else {
		if err := s.interactionRepo.CreateBookmark(ctx, userID, tip.ID); err != nil {
			if present, checkErr := s.interactionRepo.BookmarkExists(ctx, userID, tip.ID); checkErr != nil || !present {
				return nil, err
			}
		}
	}

	count, err := s.interactionRepo.CountBookmarks(ctx, tip.ID)
	if err != nil {
		return nil, err
	}
	observability.InteractionToggles.WithLabelValues("bookmark", toggleState(!exists)).Inc()
	return &ToggleResult{Active: !exists, Count: count}, nil
}

func toggleState(active bool) string {
	if active {
		return "on"
	}
	return "off"
}
