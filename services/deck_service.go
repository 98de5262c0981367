package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/reviseo/reviseo-api/model"
	"gorm.io/gorm"
)

var (
	// ErrDeckNeedsCards rejects decks created or updated with zero cards
	ErrDeckNeedsCards = errors.New("a deck must contain at least one card")
)

// NewDeckInput carries the fields needed to create a deck
type NewDeckInput struct {
	Title     string
	SubjectID uint
	IsPublic  bool
	Classes   []string
	Series    []string
	Cards     []model.Card
}

// DeckService owns the flashcard deck lifecycle, including the progress
// cascade on deletion.
type DeckService struct {
	db       *gorm.DB
	progress *ProgressService
}

// NewDeckService creates a new deck service
func NewDeckService(db *gorm.DB, progress *ProgressService) *DeckService {
	return &DeckService{db: db, progress: progress}
}

// CreateAdminDeck creates a platform deck with broad targeting.
func (s *DeckService) CreateAdminDeck(ctx context.Context, input NewDeckInput) (*model.FlashcardDeck, error) {
	return s.create(ctx, input, model.SystemOwner())
}

// CreateUserDeck creates a student's own deck. User decks are always private
// and target exactly the creator's class and series, whatever the input says.
func (s *DeckService) CreateUserDeck(ctx context.Context, user *model.User, input NewDeckInput) (*model.FlashcardDeck, error) {
	input.IsPublic = false
	input.Classes = []string{user.Class}
	input.Series = []string{user.Series}
	return s.create(ctx, input, model.UserOwner(user.ID))
}

func (s *DeckService) create(ctx context.Context, input NewDeckInput, owner model.Owner) (*model.FlashcardDeck, error) {
	if len(input.Cards) == 0 {
		return nil, ErrDeckNeedsCards
	}

	deck := &model.FlashcardDeck{
		Title:     input.Title,
		SubjectID: input.SubjectID,
		IsPublic:  input.IsPublic,
		Classes:   input.Classes,
		Series:    input.Series,
		Owner:     owner,
		Cards:     input.Cards,
	}

	if err := s.db.WithContext(ctx).Create(deck).Error; err != nil {
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}
	return deck, nil
}

// GetDeck loads a deck with its cards.
func (s *DeckService) GetDeck(ctx context.Context, deckID uint) (*model.FlashcardDeck, error) {
	var deck model.FlashcardDeck
	err := s.db.WithContext(ctx).Preload("Cards").Preload("Subject").First(&deck, deckID).Error
	if err != nil {
		return nil, err
	}
	return &deck, nil
}

// UpdateDeck replaces a deck's metadata and card list.
func (s *DeckService) UpdateDeck(ctx context.Context, deckID uint, input NewDeckInput) (*model.FlashcardDeck, error) {
	if len(input.Cards) == 0 {
		return nil, ErrDeckNeedsCards
	}

	var deck model.FlashcardDeck
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deck, deckID).Error; err != nil {
			return err
		}

		deck.Title = input.Title
		deck.SubjectID = input.SubjectID
		deck.IsPublic = input.IsPublic
		deck.Classes = input.Classes
		deck.Series = input.Series
		if err := tx.Save(&deck).Error; err != nil {
			return err
		}

		// Replace the card list wholesale; progress rows for removed cards
		// stay put and simply stop matching any card.
		if err := tx.Where("deck_id = ?", deckID).Delete(&model.Card{}).Error; err != nil {
			return err
		}
		for i := range input.Cards {
			input.Cards[i].ID = 0
			input.Cards[i].DeckID = deckID
		}
		return tx.Create(&input.Cards).Error
	})
	if err != nil {
		return nil, err
	}

	deck.Cards = input.Cards
	return &deck, nil
}

// DeleteDeck removes a deck, its cards, and every progress row referencing
// it, in one transaction. The progress fan-out is explicit rather than left
// to the schema, so no orphaned progress survives.
func (s *DeckService) DeleteDeck(ctx context.Context, deckID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.progress.DeleteDeckProgress(ctx, tx, deckID); err != nil {
			return err
		}
		if err := tx.Where("deck_id = ?", deckID).Delete(&model.Card{}).Error; err != nil {
			return fmt.Errorf("failed to delete cards for deck %d: %w", deckID, err)
		}
		if err := tx.Delete(&model.FlashcardDeck{}, deckID).Error; err != nil {
			return fmt.Errorf("failed to delete deck %d: %w", deckID, err)
		}
		return nil
	})
}

// ListDecksOptions filters the deck listing
type ListDecksOptions struct {
	SubjectID uint
	Class     string
	Series    string
	UserID    uint // include this user's private decks alongside public ones
	Limit     int
	Offset    int
}

// ListDecks returns public decks targeted at the given class/series, plus the
// requesting user's own private decks.
func (s *DeckService) ListDecks(ctx context.Context, opts ListDecksOptions) ([]model.FlashcardDeck, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.FlashcardDeck{})

	if opts.UserID != 0 {
		query = query.Where("(is_public = ?) OR (owner_kind = ? AND owner_user_id = ?)",
			true, model.OwnerKindUser, opts.UserID)
	} else {
		query = query.Where("is_public = ?", true)
	}
	if opts.SubjectID != 0 {
		query = query.Where("subject_id = ?", opts.SubjectID)
	}
	if opts.Class != "" {
		query = query.Where("? = ANY(classes)", opts.Class)
	}
	if opts.Series != "" {
		query = query.Where("? = ANY(series)", opts.Series)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count decks: %w", err)
	}

	var decks []model.FlashcardDeck
	err := query.Preload("Subject").
		Order("created_at DESC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&decks).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list decks: %w", err)
	}

	return decks, total, nil
}
