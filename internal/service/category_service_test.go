package service

import (
	"context"
	"testing"

	"greenlifestyle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_Propose(t *testing.T) {
	tests := []struct {
		name           string
		role           models.Role
		expectApproved bool
	}{
		{name: "RegularUserWaitsForApproval", role: models.RoleUser, expectApproved: false},
		{name: "ModeratorGoesLive", role: models.RoleModerator, expectApproved: true},
		{name: "AdminGoesLive", role: models.RoleAdmin, expectApproved: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *models.Category
			categories := &categoryRepoStub{
				getByNameFn: func(_ context.Context, _ string) (*models.Category, error) { return nil, nil },
				nextSlugFn:  func(_ context.Context, _ string) (string, error) { return "urban-gardening", nil },
				createFn: func(_ context.Context, c *models.Category) error {
					created = c
					return nil
				},
			}
			users := &userRepoStub{
				getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
					return &models.User{ID: id, Role: tt.role, IsActive: true}, nil
				},
			}
			svc := NewCategoryService(categories, users)

			category, err := svc.Propose(context.Background(), ProposeCategoryInput{
				UserID:      4,
				Name:        "Urban Gardening",
				Description: "Growing food in small city spaces",
			})
			require.NoError(t, err)
			require.NotNil(t, created)
			assert.Equal(t, "urban-gardening", category.Slug)
			assert.Equal(t, tt.expectApproved, category.IsApproved)
			if tt.expectApproved {
				require.NotNil(t, category.ApprovedByID)
				assert.Equal(t, uint(4), *category.ApprovedByID)
			}
		})
	}
}

func TestCategoryService_Propose_DuplicateName(t *testing.T) {
	categories := &categoryRepoStub{
		getByNameFn: func(_ context.Context, _ string) (*models.Category, error) {
			return &models.Category{ID: 1, Name: "Energy"}, nil
		},
	}
	svc := NewCategoryService(categories, &userRepoStub{})

	_, err := svc.Propose(context.Background(), ProposeCategoryInput{UserID: 4, Name: "energy"})
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestCategoryService_GetBySlug_HidesPending(t *testing.T) {
	categories := &categoryRepoStub{
		getBySlugFn: func(_ context.Context, slugVal string) (*models.Category, error) {
			return &models.Category{ID: 1, Slug: slugVal, IsApproved: false}, nil
		},
	}
	svc := NewCategoryService(categories, &userRepoStub{})
	ctx := context.Background()

	_, err := svc.GetBySlug(ctx, "pending", false)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	// Moderators see the queue.
	category, err := svc.GetBySlug(ctx, "pending", true)
	require.NoError(t, err)
	assert.Equal(t, uint(1), category.ID)
}

func TestCategoryService_Approve_Idempotent(t *testing.T) {
	approveCalls := 0
	categories := &categoryRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, IsApproved: true}, nil
		},
		approveFn: func(_ context.Context, _, _ uint) error {
			approveCalls++
			return nil
		},
	}
	svc := NewCategoryService(categories, &userRepoStub{})

	category, err := svc.Approve(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, category.IsApproved)
	assert.Zero(t, approveCalls)
}
