package repository

import (
	"context"
	"testing"

	"greenlifestyle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	moderator := createTestUser(t, db, "moderator")

	t.Run("NextSlug", func(t *testing.T) {
		s, err := repo.NextSlug(ctx, "Zero Waste")
		require.NoError(t, err)
		assert.Equal(t, "zero-waste", s)
	})

	t.Run("CreateAndLookup", func(t *testing.T) {
		category := &models.Category{Name: "Zero Waste", Slug: "zero-waste", CreatedByID: &moderator.ID}
		require.NoError(t, repo.Create(ctx, category))

		byName, err := repo.GetByName(ctx, "zero WASTE")
		require.NoError(t, err)
		require.NotNil(t, byName)
		assert.Equal(t, category.ID, byName.ID)

		missing, err := repo.GetByName(ctx, "No Such Thing")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("PendingUntilApproved", func(t *testing.T) {
		pending, err := repo.ListPending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)

		approved, err := repo.ListApproved(ctx)
		require.NoError(t, err)
		assert.Empty(t, approved)

		require.NoError(t, repo.Approve(ctx, pending[0].ID, moderator.ID))

		got, err := repo.GetBySlug(ctx, "zero-waste")
		require.NoError(t, err)
		assert.True(t, got.IsApproved)
		require.NotNil(t, got.ApprovedByID)
		assert.Equal(t, moderator.ID, *got.ApprovedByID)
		assert.NotNil(t, got.ApprovedAt)

		approved, err = repo.ListApproved(ctx)
		require.NoError(t, err)
		require.Len(t, approved, 1)
	})

	t.Run("TipsCount", func(t *testing.T) {
		category, err := repo.GetBySlug(ctx, "zero-waste")
		require.NoError(t, err)

		author := createTestUser(t, db, "author")
		require.NoError(t, db.Create(&models.Tip{
			Title:       "Bring Your Own Bag",
			Slug:        "bring-your-own-bag",
			Content:     "Keep one folded in every coat pocket.",
			AuthorID:    author.ID,
			CategoryID:  &category.ID,
			IsPublished: true,
		}).Error)
		require.NoError(t, db.Create(&models.Tip{
			Title:    "Unpublished",
			Slug:     "unpublished",
			Content:  "Drafts do not count toward the tally.",
			AuthorID: author.ID,
			CategoryID: &category.ID,
			IsPublished: false,
		}).Error)
		db.Model(&models.Tip{}).Where("slug = ?", "unpublished").Update("is_published", false)

		got, err := repo.GetByID(ctx, category.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.TipsCount)
	})

	t.Run("Delete", func(t *testing.T) {
		category, err := repo.GetBySlug(ctx, "zero-waste")
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, category.ID))

		_, err = repo.GetBySlug(ctx, "zero-waste")
		assert.Error(t, err)
	})
}
