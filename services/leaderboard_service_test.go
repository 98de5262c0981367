package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/reviseo/reviseo-api/model"
	"github.com/reviseo/reviseo-api/utils/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestCache(t *testing.T) *cache.RedisCache {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return cache.NewRedisCacheFromClient(client)
}

func seedRankedUsers(t *testing.T, db *gorm.DB) (first, second, third *model.User) {
	t.Helper()

	first = createTestUser(t, db, "first")
	second = createTestUser(t, db, "second")
	third = createTestUser(t, db, "third")

	require.NoError(t, db.Model(first).UpdateColumn("points", 30).Error)
	require.NoError(t, db.Model(second).UpdateColumn("points", 20).Error)
	require.NoError(t, db.Model(third).UpdateColumn("points", 10).Error)
	return first, second, third
}

func TestToggleExclusion(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)
	ctx := context.Background()
	user := createTestUser(t, db, "alice")

	excluded, err := svc.IsExcluded(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, excluded)

	// The first exclusion creates the row.
	require.NoError(t, svc.ToggleExclusion(ctx, user.ID, true))
	excluded, err = svc.IsExcluded(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, excluded)

	// Excluding again is a no-op, not a duplicate row.
	require.NoError(t, svc.ToggleExclusion(ctx, user.ID, true))
	var count int64
	require.NoError(t, db.Model(&model.LeaderboardExclusion{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.NoError(t, svc.ToggleExclusion(ctx, user.ID, false))
	excluded, err = svc.IsExcluded(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, excluded)

	// Including a never-excluded user is also a no-op.
	require.NoError(t, svc.ToggleExclusion(ctx, 99999, false))
}

func TestTopStudents(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)
	ctx := context.Background()

	first, second, third := seedRankedUsers(t, db)

	entries, err := svc.TopStudents(ctx, 50)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, first.ID, entries[0].UserID)
	assert.Equal(t, 30, entries[0].Points)
	assert.Equal(t, second.ID, entries[1].UserID)
	assert.Equal(t, third.ID, entries[2].UserID)

	// Excluded users disappear from the ranking but keep their points.
	require.NoError(t, svc.ToggleExclusion(ctx, second.ID, true))

	entries, err = svc.TopStudents(ctx, 50)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].UserID)
	assert.Equal(t, third.ID, entries[1].UserID)

	var reloaded model.User
	require.NoError(t, db.First(&reloaded, second.ID).Error)
	assert.Equal(t, 20, reloaded.Points)
}

func TestTopStudentsCaching(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, newTestCache(t))
	ctx := context.Background()

	first, _, _ := seedRankedUsers(t, db)

	entries, err := svc.TopStudents(ctx, 50)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// A points change invisible to the cache: the cached page is served.
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", first.ID).UpdateColumn("points", 0).Error)
	entries, err = svc.TopStudents(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, first.ID, entries[0].UserID)

	// An exclusion toggle invalidates the cache immediately.
	require.NoError(t, svc.ToggleExclusion(ctx, first.ID, true))
	entries, err = svc.TopStudents(ctx, 50)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.NotEqual(t, first.ID, entry.UserID)
	}
}

func TestTopStudentsCacheInvalidationCoversAllPageSizes(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, newTestCache(t))
	ctx := context.Background()

	first, _, _ := seedRankedUsers(t, db)

	// Warm the cache for a non-default page size.
	entries, err := svc.TopStudents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// The toggle must evict that page too, not just the default sizes.
	require.NoError(t, svc.ToggleExclusion(ctx, first.ID, true))
	entries, err = svc.TopStudents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.NotEqual(t, first.ID, entry.UserID)
	}
}
