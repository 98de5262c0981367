package services

import (
	"context"
	"testing"
	"time"

	"github.com/reviseo/reviseo-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
}

func TestEvaluateGrant(t *testing.T) {
	now := fixedNow()

	t.Run("nil grant is not premium", func(t *testing.T) {
		status := EvaluateGrant(nil, now)
		assert.False(t, status.IsPremium)
		assert.Nil(t, status.ExpiresAt)
	})

	t.Run("active grant", func(t *testing.T) {
		grant := &model.PremiumGrant{EndDate: now.Add(time.Hour)}
		status := EvaluateGrant(grant, now)
		assert.True(t, status.IsPremium)
		require.NotNil(t, status.ExpiresAt)
		assert.Equal(t, grant.EndDate, *status.ExpiresAt)
	})

	t.Run("grant expiring exactly now is still active", func(t *testing.T) {
		grant := &model.PremiumGrant{EndDate: now}
		status := EvaluateGrant(grant, now)
		assert.True(t, status.IsPremium)
	})

	t.Run("expired grant reports expiry date", func(t *testing.T) {
		grant := &model.PremiumGrant{EndDate: now.Add(-time.Second)}
		status := EvaluateGrant(grant, now)
		assert.False(t, status.IsPremium)
		require.NotNil(t, status.ExpiresAt)
		assert.Equal(t, grant.EndDate, *status.ExpiresAt)
	})
}

func TestPremiumActivate(t *testing.T) {
	db := newTestDB(t)
	svc := NewPremiumService(db)
	svc.now = fixedNow
	ctx := context.Background()
	user := createTestUser(t, db, "alice")

	t.Run("rejects unknown duration", func(t *testing.T) {
		_, err := svc.Activate(ctx, user.ID, "decade")
		assert.ErrorIs(t, err, ErrInvalidDuration)
	})

	t.Run("week grant runs seven days", func(t *testing.T) {
		grant, err := svc.Activate(ctx, user.ID, model.PremiumDurationWeek)
		require.NoError(t, err)
		assert.Equal(t, fixedNow().AddDate(0, 0, 7), grant.EndDate)
	})

	t.Run("year grant covers the nine month academic year", func(t *testing.T) {
		grant, err := svc.Activate(ctx, user.ID, model.PremiumDurationYear)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 10, 15, 10, 0, 0, 0, time.UTC), grant.EndDate)
	})

	t.Run("re-activation replaces the existing grant", func(t *testing.T) {
		_, err := svc.Activate(ctx, user.ID, model.PremiumDurationYear)
		require.NoError(t, err)
		_, err = svc.Activate(ctx, user.ID, model.PremiumDurationWeek)
		require.NoError(t, err)

		var grants []model.PremiumGrant
		require.NoError(t, db.Find(&grants).Error)
		require.Len(t, grants, 1)
		assert.Equal(t, model.PremiumDurationWeek, grants[0].Duration)
		assert.Equal(t, fixedNow().AddDate(0, 0, 7), grants[0].EndDate.UTC())
	})
}

func TestPremiumDeactivate(t *testing.T) {
	db := newTestDB(t)
	svc := NewPremiumService(db)
	svc.now = fixedNow
	ctx := context.Background()
	user := createTestUser(t, db, "alice")

	_, err := svc.Activate(ctx, user.ID, model.PremiumDurationMonth)
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, user.ID))
	assert.False(t, svc.Evaluate(ctx, user.ID).IsPremium)

	// Deactivating again, or a user who never had premium, is a no-op.
	require.NoError(t, svc.Deactivate(ctx, user.ID))
	require.NoError(t, svc.Deactivate(ctx, 99999))
}

func TestPremiumEvaluate(t *testing.T) {
	db := newTestDB(t)
	svc := NewPremiumService(db)
	svc.now = fixedNow
	ctx := context.Background()
	user := createTestUser(t, db, "alice")

	t.Run("no grant means not premium", func(t *testing.T) {
		status := svc.Evaluate(ctx, user.ID)
		assert.False(t, status.IsPremium)
	})

	t.Run("active grant is premium", func(t *testing.T) {
		_, err := svc.Activate(ctx, user.ID, model.PremiumDurationMonth)
		require.NoError(t, err)

		status := svc.Evaluate(ctx, user.ID)
		assert.True(t, status.IsPremium)
		require.NotNil(t, status.ExpiresAt)
	})

	t.Run("expired grant reads non-premium and is reaped", func(t *testing.T) {
		_, err := svc.Activate(ctx, user.ID, model.PremiumDurationWeek)
		require.NoError(t, err)

		// Move the clock past the grant's end date.
		svc.now = func() time.Time { return fixedNow().AddDate(0, 0, 8) }
		defer func() { svc.now = fixedNow }()

		status := svc.Evaluate(ctx, user.ID)
		assert.False(t, status.IsPremium)
		require.NotNil(t, status.ExpiresAt)

		var count int64
		require.NoError(t, db.Model(&model.PremiumGrant{}).Where("user_id = ?", user.ID).Count(&count).Error)
		assert.Zero(t, count, "expired grant should have been deleted")
	})
}

func TestPremiumEvaluateBatch(t *testing.T) {
	db := newTestDB(t)
	svc := NewPremiumService(db)
	svc.now = fixedNow
	ctx := context.Background()

	active := createTestUser(t, db, "active")
	expired := createTestUser(t, db, "expired")
	never := createTestUser(t, db, "never")

	_, err := svc.Activate(ctx, active.ID, model.PremiumDurationMonth)
	require.NoError(t, err)

	require.NoError(t, db.Create(&model.PremiumGrant{
		UserID:    expired.ID,
		StartDate: fixedNow().AddDate(0, -2, 0),
		EndDate:   fixedNow().AddDate(0, -1, 0),
		Duration:  model.PremiumDurationMonth,
	}).Error)

	statuses := svc.EvaluateBatch(ctx, []uint{active.ID, expired.ID, never.ID})
	require.Len(t, statuses, 3)
	assert.True(t, statuses[active.ID].IsPremium)
	assert.False(t, statuses[expired.ID].IsPremium)
	assert.False(t, statuses[never.ID].IsPremium)

	// The batch path is read-only: the expired grant must survive it.
	var count int64
	require.NoError(t, db.Model(&model.PremiumGrant{}).Where("user_id = ?", expired.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	assert.Empty(t, svc.EvaluateBatch(ctx, nil))
}

func TestPremiumReapExpired(t *testing.T) {
	db := newTestDB(t)
	svc := NewPremiumService(db)
	svc.now = fixedNow
	ctx := context.Background()

	active := createTestUser(t, db, "active")
	expired := createTestUser(t, db, "expired")

	_, err := svc.Activate(ctx, active.ID, model.PremiumDurationMonth)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.PremiumGrant{
		UserID:    expired.ID,
		StartDate: fixedNow().AddDate(0, -2, 0),
		EndDate:   fixedNow().AddDate(0, -1, 0),
		Duration:  model.PremiumDurationMonth,
	}).Error)

	reaped, err := svc.ReapExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, reaped)

	assert.True(t, svc.Evaluate(ctx, active.ID).IsPremium)
}
