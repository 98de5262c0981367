package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/reviseo/reviseo-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInvalidCardStatus is returned for statuses outside learning/mastered
	ErrInvalidCardStatus = errors.New("invalid card status")
)

// ProgressService persists per-user, per-deck card mastery state.
// One row per reviewed card keeps updates to sibling cards independent,
// so concurrent reviews in the same deck never clobber each other.
type ProgressService struct {
	db *gorm.DB
}

// NewProgressService creates a new progress service
func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

// GetProgress returns the card statuses a user has recorded for a deck.
// A deck the user never studied yields an empty map, not an error.
func (s *ProgressService) GetProgress(ctx context.Context, userID, deckID uint) (map[uint]model.CardStatus, error) {
	var rows []model.CardProgress
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND deck_id = ?", userID, deckID).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load progress for user %d deck %d: %w", userID, deckID, err)
	}

	progress := make(map[uint]model.CardStatus, len(rows))
	for _, row := range rows {
		progress[row.CardID] = row.Status
	}
	return progress, nil
}

// SetCardStatus upserts the status of one card without touching siblings.
// Last write wins per card, which is safe because each call addresses its
// own row.
func (s *ProgressService) SetCardStatus(ctx context.Context, userID, deckID, cardID uint, status model.CardStatus) error {
	if !status.Valid() {
		return ErrInvalidCardStatus
	}

	row := model.CardProgress{
		UserID: userID,
		DeckID: deckID,
		CardID: cardID,
		Status: status,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "deck_id"}, {Name: "card_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to set card status: %w", err)
	}
	return nil
}

// DeleteDeckProgress removes every progress row referencing a deck. Invoked
// inside the deck-deletion transaction so no orphaned progress survives.
func (s *ProgressService) DeleteDeckProgress(ctx context.Context, tx *gorm.DB, deckID uint) error {
	if tx == nil {
		tx = s.db
	}
	err := tx.WithContext(ctx).Where("deck_id = ?", deckID).Delete(&model.CardProgress{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete progress for deck %d: %w", deckID, err)
	}
	return nil
}
