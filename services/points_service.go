package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/reviseo/reviseo-api/model"
	"gorm.io/gorm"
)

// Activity is a point-earning action a student can complete
type Activity string

const (
	ActivityFlashcardReview Activity = "flashcard_review"
	ActivityChapterReview   Activity = "chapter_review"
)

// activityPoints maps each activity to the points it awards. There is no
// point deduction in this domain.
var activityPoints = map[Activity]int{
	ActivityFlashcardReview: 1,
	ActivityChapterReview:   5,
}

var (
	// ErrUnknownActivity is returned for activities outside the table above
	ErrUnknownActivity = errors.New("unknown activity")
)

// PointsService accrues activity points on the user row.
// Increments happen in SQL relative to the stored value, never from a value
// read earlier, so concurrent completions are all reflected.
type PointsService struct {
	db *gorm.DB
}

// NewPointsService creates a new points service
func NewPointsService(db *gorm.DB) *PointsService {
	return &PointsService{db: db}
}

// AddPoints credits the user for a completed activity.
func (s *PointsService) AddPoints(ctx context.Context, userID uint, activity Activity) error {
	points, ok := activityPoints[activity]
	if !ok {
		return ErrUnknownActivity
	}

	result := s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", points))
	if result.Error != nil {
		return fmt.Errorf("failed to add points for user %d: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to add points: user %d not found", userID)
	}
	return nil
}

// PointsFor returns the point value of an activity, for display purposes.
func PointsFor(activity Activity) (int, bool) {
	points, ok := activityPoints[activity]
	return points, ok
}
