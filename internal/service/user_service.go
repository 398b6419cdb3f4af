// Package service holds the business rules between the HTTP handlers and the
// repositories.
package service

import (
	"context"
	"errors"
	"strings"

	"greenlifestyle/internal/models"
	"greenlifestyle/internal/repository"
	"greenlifestyle/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

type UpdateProfileInput struct {
	UserID       uint
	Bio          *string
	Gender       *string
	Education    *string
	Location     *string
	Website      *string
	EcoInterests *string
	AvatarURL    *string
}

// Profile is a public view of a user plus the viewer's relationship to them.
type Profile struct {
	User        *models.User `json:"user"`
	IsFollowing bool         `json:"is_following"`
	IsSelf      bool         `json:"is_self"`
}

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo}
}

func (s *UserService) GetProfile(ctx context.Context, username string, currentUserID uint) (*Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("user", username)
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, models.NewNotFoundError("user", username)
	}

	profile := &Profile{User: user, IsSelf: currentUserID == user.ID}
	if currentUserID != 0 && currentUserID != user.ID {
		following, err := s.followRepo.Exists(ctx, currentUserID, user.ID)
		if err != nil {
			return nil, err
		}
		profile.IsFollowing = following
	}
	return profile, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("user", "")
	}
	if err != nil {
		return nil, err
	}

	if in.Bio != nil {
		if len(*in.Bio) > validation.MaxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Gender != nil {
		user.Gender = strings.TrimSpace(*in.Gender)
	}
	if in.Education != nil {
		if len(*in.Education) > validation.MaxEducationLen {
			return nil, models.NewValidationError("Education too long (max 500 characters)")
		}
		user.Education = strings.TrimSpace(*in.Education)
	}
	if in.Location != nil {
		if len(*in.Location) > validation.MaxLocationLen {
			return nil, models.NewValidationError("Location too long (max 100 characters)")
		}
		user.Location = strings.TrimSpace(*in.Location)
	}
	if in.Website != nil {
		website := strings.TrimSpace(*in.Website)
		if website != "" && !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
			return nil, models.NewValidationError("Website must start with http:// or https://")
		}
		user.Website = website
	}
	if in.EcoInterests != nil {
		if len(*in.EcoInterests) > validation.MaxEcoInterests {
			return nil, models.NewValidationError("Eco interests too long (max 500 characters)")
		}
		user.EcoInterests = strings.TrimSpace(*in.EcoInterests)
	}
	if in.AvatarURL != nil {
		if err := validation.ValidateImage(*in.AvatarURL, 0); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.AvatarURL = strings.TrimSpace(*in.AvatarURL)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before accepting the new one.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("user", "")
	}
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		return models.NewUnauthorizedError("Current password is incorrect")
	}
	if err := validation.ValidatePassword(next); err != nil {
		return models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.userRepo.Update(ctx, user)
}

// DeleteAccount soft-deletes after a password check. Admins removing other
// accounts go through the admin surface instead.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint, password string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("user", "")
	}
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return models.NewUnauthorizedError("Password is incorrect")
	}
	return s.userRepo.Delete(ctx, userID)
}
