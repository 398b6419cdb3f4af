package service

import (
	"context"
	"testing"

	"greenlifestyle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByTipFn  func(context.Context, uint, int, int) ([]*models.Comment, int64, error)
	updateFn     func(context.Context, *models.Comment) error
	deleteFn     func(context.Context, uint) error
	countByTipFn func(context.Context, uint) (int64, error)
	countFn      func(context.Context) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByTip(ctx context.Context, tipID uint, limit, offset int) ([]*models.Comment, int64, error) {
	return s.listByTipFn(ctx, tipID, limit, offset)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) CountByTip(ctx context.Context, tipID uint) (int64, error) {
	return s.countByTipFn(ctx, tipID)
}
func (s *commentRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func TestCommentService_Add(t *testing.T) {
	comments := &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 11
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, TipID: 1, AuthorID: 7, Content: "Nice one"}, nil
		},
	}
	var refreshed []uint
	users := &userRepoStub{
		refreshStatsFn: func(_ context.Context, id uint) (*models.User, error) {
			refreshed = append(refreshed, id)
			return &models.User{ID: id}, nil
		},
	}
	svc := NewCommentService(comments, publishedTipStub(), users)

	comment, err := svc.Add(context.Background(), 7, "unplug-chargers", "  Nice one  ")
	require.NoError(t, err)
	assert.Equal(t, uint(11), comment.ID)
	// The commenter and the tip author both get their stats recomputed.
	assert.Equal(t, []uint{7, 2}, refreshed)
}

func TestCommentService_Add_EmptyContent(t *testing.T) {
	svc := NewCommentService(&commentRepoStub{}, publishedTipStub(), &userRepoStub{})

	_, err := svc.Add(context.Background(), 7, "unplug-chargers", "   ")
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestCommentService_Update_AuthorOnly(t *testing.T) {
	comments := &commentRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, TipID: 1, AuthorID: 7, Content: "Original"}, nil
		},
	}
	svc := NewCommentService(comments, publishedTipStub(), &userRepoStub{})

	_, err := svc.Update(context.Background(), 11, 8, "Edited")
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}

func TestCommentService_Delete_AuthorOnly(t *testing.T) {
	newStub := func(deleted *bool) *commentRepoStub {
		return &commentRepoStub{
			getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
				return &models.Comment{ID: id, TipID: 1, AuthorID: 7}, nil
			},
			deleteFn: func(_ context.Context, _ uint) error {
				*deleted = true
				return nil
			},
		}
	}
	// publishedTipStub's tip belongs to user 2.
	rejects := func(t *testing.T, userID uint) {
		t.Helper()
		deleted := false
		svc := NewCommentService(newStub(&deleted), publishedTipStub(), &userRepoStub{})
		err := svc.Delete(context.Background(), 11, userID)
		require.Error(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "FORBIDDEN", appErr.Code)
		assert.False(t, deleted)
	}

	t.Run("CommentAuthor", func(t *testing.T) {
		deleted := false
		svc := NewCommentService(newStub(&deleted), publishedTipStub(), &userRepoStub{})
		require.NoError(t, svc.Delete(context.Background(), 11, 7))
		assert.True(t, deleted)
	})

	t.Run("TipAuthor", func(t *testing.T) { rejects(t, 2) })

	t.Run("Stranger", func(t *testing.T) { rejects(t, 99) })
}
