package services

import (
	"context"
	"testing"

	"github.com/reviseo/reviseo-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateResource(t *testing.T) {
	db := newTestDB(t)
	svc := NewResourceService(db, nil)
	ctx := context.Background()
	subject := createTestSubject(t, db, "CHEM")

	t.Run("admin resources are system owned", func(t *testing.T) {
		resource, err := svc.CreateAdminResource(ctx, NewResourceInput{
			Title:     "Annales BAC 2023",
			SubjectID: subject.ID,
			IsPublic:  true,
			Classes:   []string{"Terminale"},
			Series:    []string{"C", "D"},
		})
		require.NoError(t, err)
		assert.Equal(t, model.OwnerKindSystem, resource.Owner.OwnerKind)
		assert.True(t, resource.IsPublic)
	})

	t.Run("user resources are forced private and self targeted", func(t *testing.T) {
		user := createTestUser(t, db, "alice")

		resource, err := svc.CreateUserResource(ctx, user, NewResourceInput{
			Title:     "My notes",
			SubjectID: subject.ID,
			IsPublic:  true,
			Classes:   []string{"Seconde"},
		})
		require.NoError(t, err)
		assert.False(t, resource.IsPublic)
		assert.Equal(t, []string{user.Class}, []string(resource.Classes))
		assert.Equal(t, []string{user.Series}, []string(resource.Series))
		assert.True(t, resource.Owner.IsOwnedBy(user.ID))
	})
}

func TestDeleteResourceCascade(t *testing.T) {
	db := newTestDB(t)
	svc := NewResourceService(db, nil)
	engagement := NewEngagementService(db)
	ctx := context.Background()

	subject := createTestSubject(t, db, "CHEM")
	alice := createTestUser(t, db, "alice")

	resource, err := svc.CreateAdminResource(ctx, NewResourceInput{
		Title:     "Annales",
		SubjectID: subject.ID,
		IsPublic:  true,
	})
	require.NoError(t, err)

	_, err = engagement.ToggleLike(ctx, alice.ID, resource.ID)
	require.NoError(t, err)
	_, err = engagement.AddComment(ctx, alice.ID, resource.ID, "useful")
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.SavedResource{UserID: alice.ID, ResourceID: resource.ID}).Error)

	require.NoError(t, svc.DeleteResource(ctx, resource.ID))

	_, err = svc.GetResource(ctx, resource.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var likes, comments, saved int64
	require.NoError(t, db.Model(&model.ResourceLike{}).Where("resource_id = ?", resource.ID).Count(&likes).Error)
	require.NoError(t, db.Model(&model.Comment{}).Where("resource_id = ?", resource.ID).Count(&comments).Error)
	require.NoError(t, db.Model(&model.SavedResource{}).Where("resource_id = ?", resource.ID).Count(&saved).Error)
	assert.Zero(t, likes)
	assert.Zero(t, comments)
	assert.Zero(t, saved)
}

func TestResourceFileHandling(t *testing.T) {
	db := newTestDB(t)
	svc := NewResourceService(db, nil)
	ctx := context.Background()
	subject := createTestSubject(t, db, "CHEM")

	resource, err := svc.CreateAdminResource(ctx, NewResourceInput{
		Title:     "Annales",
		SubjectID: subject.ID,
	})
	require.NoError(t, err)

	// Without object storage uploads are refused and URLs are empty.
	_, err = svc.AttachFile(ctx, resource.ID, nil)
	assert.Error(t, err)
	assert.Empty(t, svc.FileURL(resource))
}
