package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/reviseo/reviseo-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInvalidDuration is returned when an activation uses an unknown plan
	ErrInvalidDuration = errors.New("invalid premium duration")
)

// PremiumService owns the premium grant lifecycle and entitlement evaluation.
//
// Evaluation is split in two: EvaluateGrant is a pure function of (grant, now),
// and the store-facing methods layer fetching and lazy cleanup on top of it.
// Reads fail closed: a store error makes the user non-premium for that call,
// it never breaks the caller's page.
type PremiumService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPremiumService creates a new premium service
func NewPremiumService(db *gorm.DB) *PremiumService {
	return &PremiumService{db: db, now: time.Now}
}

// EvaluateGrant computes the premium status of a grant at the given instant.
// A nil grant means no entitlement at all.
func EvaluateGrant(grant *model.PremiumGrant, now time.Time) model.PremiumStatus {
	if grant == nil {
		return model.PremiumStatus{IsPremium: false}
	}
	expiresAt := grant.EndDate
	return model.PremiumStatus{
		IsPremium: !expiresAt.Before(now),
		ExpiresAt: &expiresAt,
	}
}

// Activate grants (or re-grants) premium to a user. The new grant fully
// replaces any existing one: dates and duration are recomputed from now,
// nothing is merged from the previous grant.
func (s *PremiumService) Activate(ctx context.Context, userID uint, duration model.PremiumDuration) (*model.PremiumGrant, error) {
	if !duration.Valid() {
		return nil, ErrInvalidDuration
	}

	start := s.now()
	grant := &model.PremiumGrant{
		UserID:    userID,
		StartDate: start,
		EndDate:   duration.EndDateFrom(start),
		Duration:  duration,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(grant).Error
	if err != nil {
		return nil, fmt.Errorf("failed to activate premium for user %d: %w", userID, err)
	}

	log.Printf("Activated %s premium for user %d until %s", duration, userID, grant.EndDate.Format(time.RFC3339))
	return grant, nil
}

// Deactivate removes a user's grant. Deactivating a user with no grant is a
// no-op, not an error.
func (s *PremiumService) Deactivate(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).Delete(&model.PremiumGrant{}, "user_id = ?", userID).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate premium for user %d: %w", userID, err)
	}
	return nil
}

// Evaluate returns the user's current premium status. An expired grant is
// reported as non-premium and reaped afterwards, best-effort: the returned
// status is computed before the delete and does not depend on its outcome.
func (s *PremiumService) Evaluate(ctx context.Context, userID uint) model.PremiumStatus {
	var grant model.PremiumGrant
	err := s.db.WithContext(ctx).First(&grant, "user_id = ?", userID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			// Fail closed on store errors; an entitlement check must
			// never take down a page render.
			log.Printf("premium evaluate failed for user %d: %v", userID, err)
		}
		return model.PremiumStatus{IsPremium: false}
	}

	status := EvaluateGrant(&grant, s.now())
	if !status.IsPremium {
		if err := s.db.WithContext(ctx).Delete(&model.PremiumGrant{}, "user_id = ?", userID).Error; err != nil {
			log.Printf("failed to reap expired grant for user %d: %v", userID, err)
		}
	}
	return status
}

// EvaluateBatch evaluates many users in one query for listing screens.
// Unlike Evaluate it never deletes expired grants: listings are a read-only
// fast path and reaping there would amplify writes.
func (s *PremiumService) EvaluateBatch(ctx context.Context, userIDs []uint) map[uint]model.PremiumStatus {
	statuses := make(map[uint]model.PremiumStatus, len(userIDs))
	for _, id := range userIDs {
		statuses[id] = model.PremiumStatus{IsPremium: false}
	}
	if len(userIDs) == 0 {
		return statuses
	}

	var grants []model.PremiumGrant
	if err := s.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&grants).Error; err != nil {
		log.Printf("premium batch evaluate failed: %v", err)
		return statuses
	}

	now := s.now()
	for i := range grants {
		statuses[grants[i].UserID] = EvaluateGrant(&grants[i], now)
	}
	return statuses
}

// ReapExpired deletes every grant past its end date. Called from the nightly
// cron job; the read paths only clean up grants they happen to touch.
func (s *PremiumService) ReapExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("end_date < ?", s.now()).Delete(&model.PremiumGrant{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reap expired grants: %w", result.Error)
	}
	return result.RowsAffected, nil
}
