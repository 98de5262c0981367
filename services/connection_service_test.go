package services

import (
	"context"
	"testing"

	"github.com/reviseo/reviseo-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSendConnectionRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewConnectionService(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	t.Run("rejects self connection", func(t *testing.T) {
		_, err := svc.SendRequest(ctx, alice.ID, alice.ID)
		assert.ErrorIs(t, err, ErrSelfConnection)
	})

	t.Run("rejects unknown recipient", func(t *testing.T) {
		_, err := svc.SendRequest(ctx, alice.ID, 99999)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("creates a pending edge", func(t *testing.T) {
		request, err := svc.SendRequest(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ConnectionStatusPending, request.Status)
	})

	t.Run("duplicates rejected in both directions", func(t *testing.T) {
		_, err := svc.SendRequest(ctx, alice.ID, bob.ID)
		assert.ErrorIs(t, err, ErrConnectionExists)

		_, err = svc.SendRequest(ctx, bob.ID, alice.ID)
		assert.ErrorIs(t, err, ErrConnectionExists)
	})
}

func TestAcceptConnectionRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewConnectionService(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	request, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	t.Run("sender cannot accept", func(t *testing.T) {
		_, err := svc.AcceptRequest(ctx, request.ID, alice.ID)
		assert.ErrorIs(t, err, ErrNotRequestRecipient)
	})

	t.Run("recipient accepts", func(t *testing.T) {
		accepted, err := svc.AcceptRequest(ctx, request.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ConnectionStatusAccepted, accepted.Status)
	})
}

func TestDeclineConnectionRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewConnectionService(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	request, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	t.Run("third parties cannot remove the edge", func(t *testing.T) {
		err := svc.DeclineRequest(ctx, request.ID, carol.ID)
		assert.ErrorIs(t, err, ErrNotRequestRecipient)
	})

	t.Run("recipient declines and the pair can retry", func(t *testing.T) {
		require.NoError(t, svc.DeclineRequest(ctx, request.ID, bob.ID))

		_, err := svc.SendRequest(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
	})
}

func TestListConnectionRequests(t *testing.T) {
	db := newTestDB(t)
	svc := NewConnectionService(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	_, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.SendRequest(ctx, carol.ID, alice.ID)
	require.NoError(t, err)

	sent, received, err := svc.ListRequests(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	require.Len(t, received, 1)
	assert.Equal(t, bob.ID, sent[0].ToUserID)
	assert.Equal(t, carol.ID, received[0].FromUserID)
	assert.Equal(t, "carol", received[0].FromUser.Name)
}
