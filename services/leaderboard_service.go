package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/reviseo/reviseo-api/model"
	"github.com/reviseo/reviseo-api/utils/cache"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	leaderboardCacheKey = "leaderboard:top"
	leaderboardCacheTTL = 60 * time.Second
)

// LeaderboardEntry is one row of the public ranking
type LeaderboardEntry struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	School string `json:"school"`
	Class  string `json:"class"`
	Points int    `json:"points"`
}

// LeaderboardService ranks students by points and manages the admin-controlled
// exclusion set hiding users from the public ranking.
type LeaderboardService struct {
	db         *gorm.DB
	redisCache *cache.RedisCache // optional, nil disables caching
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(db *gorm.DB, redisCache *cache.RedisCache) *LeaderboardService {
	return &LeaderboardService{db: db, redisCache: redisCache}
}

// ToggleExclusion adds or removes a user from the exclusion set. The first
// exclusion creates its row; excluding an already-excluded user or including
// a never-excluded one are both no-ops.
func (s *LeaderboardService) ToggleExclusion(ctx context.Context, userID uint, exclude bool) error {
	if exclude {
		row := model.LeaderboardExclusion{UserID: userID}
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("failed to exclude user %d from leaderboard: %w", userID, err)
		}
	} else {
		err := s.db.WithContext(ctx).Delete(&model.LeaderboardExclusion{}, "user_id = ?", userID).Error
		if err != nil {
			return fmt.Errorf("failed to include user %d in leaderboard: %w", userID, err)
		}
	}

	s.invalidateCache(ctx)
	return nil
}

// IsExcluded reports membership in the exclusion set.
func (s *LeaderboardService) IsExcluded(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.LeaderboardExclusion{}).
		Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check leaderboard exclusion: %w", err)
	}
	return count > 0, nil
}

// TopStudents returns the public ranking: users ordered by points, excluded
// users filtered out. Results are cached briefly since the listing is hot and
// last-write-wins staleness of a minute is acceptable here.
func (s *LeaderboardService) TopStudents(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("%s:%d", leaderboardCacheKey, limit)
	if s.redisCache != nil {
		var cached []LeaderboardEntry
		if err := s.redisCache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	var entries []LeaderboardEntry
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Select("users.id AS user_id, users.name, users.school, users.class, users.points").
		Joins("LEFT JOIN leaderboard_exclusions le ON le.user_id = users.id").
		Where("le.user_id IS NULL").
		Order("users.points DESC, users.id ASC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	if s.redisCache != nil {
		if err := s.redisCache.SetJSON(ctx, cacheKey, entries, leaderboardCacheTTL); err != nil {
			log.Printf("failed to cache leaderboard: %v", err)
		}
	}

	return entries, nil
}

func (s *LeaderboardService) invalidateCache(ctx context.Context) {
	if s.redisCache == nil {
		return
	}
	// Every requested page size gets its own cache key, so drop them all.
	keys, err := s.redisCache.Keys(ctx, leaderboardCacheKey+":*")
	if err != nil {
		log.Printf("failed to scan leaderboard cache keys: %v", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.redisCache.Delete(ctx, keys...); err != nil {
		log.Printf("failed to invalidate leaderboard cache: %v", err)
	}
}
