package service

import (
	"context"
	"errors"

	"greenlifestyle/internal/models"
	"greenlifestyle/internal/repository"

	"gorm.io/gorm"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// ToggleFollowResult mirrors what the profile page needs to repaint its
// follow button and counters.
type ToggleFollowResult struct {
	IsFollowing    bool  `json:"is_following"`
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Toggle follows the named user, or unfollows if already following. The
// returned counts describe the target user.
func (s *FollowService) Toggle(ctx context.Context, followerID uint, username string) (*ToggleFollowResult, error) {
	target, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("user", username)
	}
	if err != nil {
		return nil, err
	}
	if target.ID == followerID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}
	if !target.IsActive {
		return nil, models.NewNotFoundError("user", username)
	}

	exists, err := s.followRepo.Exists(ctx, followerID, target.ID)
	if err != nil {
		return nil, err
	}

	if exists {
		if err := s.followRepo.Delete(ctx, followerID, target.ID); err != nil {
			return nil, err
		}
	} else {
		err := s.followRepo.Create(ctx, &models.Follow{FollowerID: followerID, FollowingID: target.ID})
		if err != nil {
			// A concurrent toggle may have beaten us to the insert. Treat
			// the row as already present and report the current state.
			if existing, checkErr := s.followRepo.Exists(ctx, followerID, target.ID); checkErr != nil || !existing {
				return nil, err
			}
		}
	}

	// Keep both users' denormalized counters honest.
	if _, err := s.userRepo.RefreshStats(ctx, target.ID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.RefreshStats(ctx, followerID); err != nil {
		return nil, err
	}

	followers, err := s.followRepo.CountFollowers(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	return &ToggleFollowResult{
		IsFollowing:    !exists,
		FollowersCount: followers,
		FollowingCount: following,
	}, nil
}

func (s *FollowService) Followers(ctx context.Context, username string, limit, offset int) ([]*models.User, error) {
	target, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("user", username)
	}
	if err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowers(ctx, target.ID, limit, offset)
}

func (s *FollowService) Following(ctx context.Context, username string, limit, offset int) ([]*models.User, error) {
	target, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("user", username)
	}
	if err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowing(ctx, target.ID, limit, offset)
}
