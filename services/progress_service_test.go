package services

import (
	"context"
	"testing"

	"github.com/reviseo/reviseo-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressGetEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)

	progress, err := svc.GetProgress(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Empty(t, progress)
	assert.NotNil(t, progress)
}

func TestProgressSetCardStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	ctx := context.Background()
	user := createTestUser(t, db, "alice")

	t.Run("rejects unknown status", func(t *testing.T) {
		err := svc.SetCardStatus(ctx, user.ID, 1, 1, "forgotten")
		assert.ErrorIs(t, err, ErrInvalidCardStatus)
	})

	t.Run("updates merge per card", func(t *testing.T) {
		require.NoError(t, svc.SetCardStatus(ctx, user.ID, 1, 10, model.CardStatusLearning))
		require.NoError(t, svc.SetCardStatus(ctx, user.ID, 1, 11, model.CardStatusMastered))

		// Re-reviewing card 10 must not disturb card 11.
		require.NoError(t, svc.SetCardStatus(ctx, user.ID, 1, 10, model.CardStatusMastered))

		progress, err := svc.GetProgress(ctx, user.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, map[uint]model.CardStatus{
			10: model.CardStatusMastered,
			11: model.CardStatusMastered,
		}, progress)
	})

	t.Run("decks are isolated per user", func(t *testing.T) {
		other := createTestUser(t, db, "bob")
		require.NoError(t, svc.SetCardStatus(ctx, other.ID, 1, 10, model.CardStatusLearning))

		progress, err := svc.GetProgress(ctx, user.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, model.CardStatusMastered, progress[10])
	})
}

func TestProgressDeleteDeckProgress(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	ctx := context.Background()
	user := createTestUser(t, db, "alice")

	require.NoError(t, svc.SetCardStatus(ctx, user.ID, 1, 10, model.CardStatusLearning))
	require.NoError(t, svc.SetCardStatus(ctx, user.ID, 2, 20, model.CardStatusMastered))

	require.NoError(t, svc.DeleteDeckProgress(ctx, nil, 1))

	gone, err := svc.GetProgress(ctx, user.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := svc.GetProgress(ctx, user.ID, 2)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}
