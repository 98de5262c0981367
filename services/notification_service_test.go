package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBroadcastAndList(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	first, err := svc.Broadcast(ctx, BroadcastRequest{
		Title:   "Exam schedule",
		Message: "The mock exams start next Monday.",
	})
	require.NoError(t, err)

	second, err := svc.Broadcast(ctx, BroadcastRequest{
		Title:    "New decks available",
		Message:  "Mathematics revision decks are live.",
		Metadata: map[string]interface{}{"subject": "MATH"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, second.Metadata)

	views, total, err := svc.ListForUser(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, views, 2)
	assert.False(t, views[0].Read)
	assert.False(t, views[1].Read)

	// Read state is per user.
	require.NoError(t, svc.MarkRead(ctx, alice.ID, first.ID))

	views, _, err = svc.ListForUser(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	readByID := map[uint]bool{}
	for _, v := range views {
		readByID[v.ID] = v.Read
	}
	assert.True(t, readByID[first.ID])
	assert.False(t, readByID[second.ID])

	bobViews, _, err := svc.ListForUser(ctx, bob.ID, 10, 0)
	require.NoError(t, err)
	for _, v := range bobViews {
		assert.False(t, v.Read)
	}
}

func TestMarkRead(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")

	notification, err := svc.Broadcast(ctx, BroadcastRequest{Title: "Hello", Message: "World"})
	require.NoError(t, err)

	t.Run("unknown notification errors", func(t *testing.T) {
		err := svc.MarkRead(ctx, alice.ID, 99999)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("marking twice is a no-op", func(t *testing.T) {
		require.NoError(t, svc.MarkRead(ctx, alice.ID, notification.ID))
		require.NoError(t, svc.MarkRead(ctx, alice.ID, notification.ID))
	})
}
