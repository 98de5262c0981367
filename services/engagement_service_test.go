package services

import (
	"context"
	"testing"

	"github.com/reviseo/reviseo-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestResource(t *testing.T, db *gorm.DB, subjectID uint) *model.Resource {
	t.Helper()

	resource := &model.Resource{
		Title:     "Past paper 2023",
		SubjectID: subjectID,
		IsPublic:  true,
		Owner:     model.SystemOwner(),
	}
	require.NoError(t, db.Create(resource).Error)
	return resource
}

func TestToggleLike(t *testing.T) {
	db := newTestDB(t)
	svc := NewEngagementService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	subject := createTestSubject(t, db, "MATH")
	resource := createTestResource(t, db, subject.ID)

	t.Run("missing resource errors", func(t *testing.T) {
		_, err := svc.ToggleLike(ctx, alice.ID, 99999)
		assert.Error(t, err)
	})

	t.Run("first toggle likes", func(t *testing.T) {
		result, err := svc.ToggleLike(ctx, alice.ID, resource.ID)
		require.NoError(t, err)
		assert.True(t, result.Liked)
		assert.Equal(t, 1, result.LikeCount)
	})

	t.Run("second user stacks on the counter", func(t *testing.T) {
		result, err := svc.ToggleLike(ctx, bob.ID, resource.ID)
		require.NoError(t, err)
		assert.True(t, result.Liked)
		assert.Equal(t, 2, result.LikeCount)
	})

	t.Run("toggling again unlikes and restores the counter", func(t *testing.T) {
		result, err := svc.ToggleLike(ctx, alice.ID, resource.ID)
		require.NoError(t, err)
		assert.False(t, result.Liked)
		assert.Equal(t, 1, result.LikeCount)

		liked, err := svc.HasLiked(ctx, alice.ID, resource.ID)
		require.NoError(t, err)
		assert.False(t, liked)

		liked, err = svc.HasLiked(ctx, bob.ID, resource.ID)
		require.NoError(t, err)
		assert.True(t, liked)
	})

	t.Run("counter always matches the like rows", func(t *testing.T) {
		var rows int64
		require.NoError(t, db.Model(&model.ResourceLike{}).Where("resource_id = ?", resource.ID).Count(&rows).Error)

		var reloaded model.Resource
		require.NoError(t, db.First(&reloaded, resource.ID).Error)
		assert.EqualValues(t, rows, reloaded.LikeCount)
	})
}

func TestAddComment(t *testing.T) {
	db := newTestDB(t)
	svc := NewEngagementService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	subject := createTestSubject(t, db, "PHYS")
	resource := createTestResource(t, db, subject.ID)

	t.Run("rejects empty text", func(t *testing.T) {
		_, err := svc.AddComment(ctx, alice.ID, resource.ID, "")
		assert.ErrorIs(t, err, ErrEmptyComment)
	})

	t.Run("missing resource errors", func(t *testing.T) {
		_, err := svc.AddComment(ctx, alice.ID, 99999, "hello")
		assert.Error(t, err)
	})

	t.Run("comment row and counter move together", func(t *testing.T) {
		comment, err := svc.AddComment(ctx, alice.ID, resource.ID, "great summary")
		require.NoError(t, err)
		assert.NotZero(t, comment.ID)

		_, err = svc.AddComment(ctx, alice.ID, resource.ID, "page 3 has a typo")
		require.NoError(t, err)

		var reloaded model.Resource
		require.NoError(t, db.First(&reloaded, resource.ID).Error)
		assert.Equal(t, 2, reloaded.CommentCount)

		comments, total, err := svc.ListComments(ctx, resource.ID, 10, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, comments, 2)
	})
}
