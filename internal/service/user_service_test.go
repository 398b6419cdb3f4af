package service

import (
	"context"
	"testing"

	"greenlifestyle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestUserService_GetProfile(t *testing.T) {
	users := &userRepoStub{
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			if username != "alice" {
				return nil, gorm.ErrRecordNotFound
			}
			return &models.User{ID: 3, Username: "alice", IsActive: true}, nil
		},
	}
	follows := &followRepoStub{
		existsFn: func(_ context.Context, followerID, followingID uint) (bool, error) {
			return followerID == 5 && followingID == 3, nil
		},
	}
	svc := NewUserService(users, follows)
	ctx := context.Background()

	t.Run("FollowerSeesRelationship", func(t *testing.T) {
		profile, err := svc.GetProfile(ctx, "alice", 5)
		require.NoError(t, err)
		assert.True(t, profile.IsFollowing)
		assert.False(t, profile.IsSelf)
	})

	t.Run("OwnProfile", func(t *testing.T) {
		profile, err := svc.GetProfile(ctx, "alice", 3)
		require.NoError(t, err)
		assert.True(t, profile.IsSelf)
		assert.False(t, profile.IsFollowing)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := svc.GetProfile(ctx, "ghost", 5)
		require.Error(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}

func TestUserService_UpdateProfile_Website(t *testing.T) {
	stored := &models.User{ID: 3, Username: "alice", IsActive: true}
	users := &userRepoStub{
		getByIDFn: func(_ context.Context, _ uint) (*models.User, error) { return stored, nil },
		updateFn:  func(_ context.Context, _ *models.User) error { return nil },
	}
	svc := NewUserService(users, &followRepoStub{})
	ctx := context.Background()

	bad := "example.com"
	_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 3, Website: &bad})
	require.Error(t, err)

	good := "https://example.com"
	user, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 3, Website: &good})
	require.NoError(t, err)
	assert.Equal(t, good, user.Website)
}

func TestUserService_ChangePassword(t *testing.T) {
	stored := &models.User{ID: 3, Username: "alice", Password: hashPassword(t, "OldPassw0rd!abc")}
	var saved *models.User
	users := &userRepoStub{
		getByIDFn: func(_ context.Context, _ uint) (*models.User, error) { return stored, nil },
		updateFn: func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		},
	}
	svc := NewUserService(users, &followRepoStub{})
	ctx := context.Background()

	t.Run("WrongCurrentPassword", func(t *testing.T) {
		err := svc.ChangePassword(ctx, 3, "not-the-password", "NewPassw0rd!abc")
		require.Error(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "UNAUTHORIZED", appErr.Code)
	})

	t.Run("WeakNewPassword", func(t *testing.T) {
		err := svc.ChangePassword(ctx, 3, "OldPassw0rd!abc", "short")
		require.Error(t, err)
	})

	t.Run("Success", func(t *testing.T) {
		err := svc.ChangePassword(ctx, 3, "OldPassw0rd!abc", "NewPassw0rd!abc")
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("NewPassw0rd!abc")))
	})
}

func TestUserService_DeleteAccount(t *testing.T) {
	stored := &models.User{ID: 3, Username: "alice", Password: hashPassword(t, "OldPassw0rd!abc")}
	deleted := false
	users := &userRepoStub{
		getByIDFn: func(_ context.Context, _ uint) (*models.User, error) { return stored, nil },
		deleteFn: func(_ context.Context, _ uint) error {
			deleted = true
			return nil
		},
	}
	svc := NewUserService(users, &followRepoStub{})
	ctx := context.Background()

	require.Error(t, svc.DeleteAccount(ctx, 3, "wrong"))
	assert.False(t, deleted)

	require.NoError(t, svc.DeleteAccount(ctx, 3, "OldPassw0rd!abc"))
	assert.True(t, deleted)
}
