package services

import (
	"context"
	"testing"

	"github.com/reviseo/reviseo-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDeckService(t *testing.T) (*DeckService, *ProgressService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	progress := NewProgressService(db)
	return NewDeckService(db, progress), progress, db
}

func deckInput(subjectID uint, cards ...model.Card) NewDeckInput {
	return NewDeckInput{
		Title:     "Suites et limites",
		SubjectID: subjectID,
		IsPublic:  true,
		Classes:   []string{"Terminale"},
		Series:    []string{"D"},
		Cards:     cards,
	}
}

func TestCreateDeck(t *testing.T) {
	svc, _, db := newTestDeckService(t)
	ctx := context.Background()
	subject := createTestSubject(t, db, "MATH")

	t.Run("rejects a deck without cards", func(t *testing.T) {
		_, err := svc.CreateAdminDeck(ctx, deckInput(subject.ID))
		assert.ErrorIs(t, err, ErrDeckNeedsCards)
	})

	t.Run("admin decks are system owned", func(t *testing.T) {
		deck, err := svc.CreateAdminDeck(ctx, deckInput(subject.ID,
			model.Card{Question: "lim 1/n ?", Answer: "0"},
			model.Card{Question: "lim n^2 ?", Answer: "+inf"},
		))
		require.NoError(t, err)
		assert.Equal(t, model.OwnerKindSystem, deck.Owner.OwnerKind)
		assert.True(t, deck.IsPublic)
		assert.Len(t, deck.Cards, 2)
		assert.False(t, deck.Owner.IsOwnedBy(1))
	})

	t.Run("user decks are forced private and self targeted", func(t *testing.T) {
		user := createTestUser(t, db, "alice")

		input := deckInput(subject.ID, model.Card{Question: "q", Answer: "a"})
		input.IsPublic = true
		input.Classes = []string{"Seconde", "Premiere"}

		deck, err := svc.CreateUserDeck(ctx, user, input)
		require.NoError(t, err)
		assert.False(t, deck.IsPublic)
		assert.Equal(t, []string{user.Class}, []string(deck.Classes))
		assert.Equal(t, []string{user.Series}, []string(deck.Series))
		assert.True(t, deck.Owner.IsOwnedBy(user.ID))
	})
}

func TestUpdateDeck(t *testing.T) {
	svc, _, db := newTestDeckService(t)
	ctx := context.Background()
	subject := createTestSubject(t, db, "MATH")

	deck, err := svc.CreateAdminDeck(ctx, deckInput(subject.ID,
		model.Card{Question: "old q", Answer: "old a"},
	))
	require.NoError(t, err)

	t.Run("rejects an empty card list", func(t *testing.T) {
		_, err := svc.UpdateDeck(ctx, deck.ID, deckInput(subject.ID))
		assert.ErrorIs(t, err, ErrDeckNeedsCards)
	})

	t.Run("replaces the card list wholesale", func(t *testing.T) {
		input := deckInput(subject.ID,
			model.Card{Question: "new q1", Answer: "a1"},
			model.Card{Question: "new q2", Answer: "a2"},
		)
		input.Title = "Suites (v2)"

		updated, err := svc.UpdateDeck(ctx, deck.ID, input)
		require.NoError(t, err)
		assert.Equal(t, "Suites (v2)", updated.Title)
		assert.Len(t, updated.Cards, 2)

		var count int64
		require.NoError(t, db.Model(&model.Card{}).Where("deck_id = ?", deck.ID).Count(&count).Error)
		assert.EqualValues(t, 2, count)
	})

	t.Run("missing deck errors", func(t *testing.T) {
		_, err := svc.UpdateDeck(ctx, 99999, deckInput(subject.ID, model.Card{Question: "q", Answer: "a"}))
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestDeleteDeck(t *testing.T) {
	svc, progress, db := newTestDeckService(t)
	ctx := context.Background()
	subject := createTestSubject(t, db, "MATH")
	user := createTestUser(t, db, "alice")

	deck, err := svc.CreateAdminDeck(ctx, deckInput(subject.ID,
		model.Card{Question: "q1", Answer: "a1"},
		model.Card{Question: "q2", Answer: "a2"},
	))
	require.NoError(t, err)

	other, err := svc.CreateAdminDeck(ctx, deckInput(subject.ID,
		model.Card{Question: "q", Answer: "a"},
	))
	require.NoError(t, err)

	require.NoError(t, progress.SetCardStatus(ctx, user.ID, deck.ID, deck.Cards[0].ID, model.CardStatusMastered))
	require.NoError(t, progress.SetCardStatus(ctx, user.ID, other.ID, other.Cards[0].ID, model.CardStatusLearning))

	require.NoError(t, svc.DeleteDeck(ctx, deck.ID))

	_, err = svc.GetDeck(ctx, deck.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var cardCount int64
	require.NoError(t, db.Model(&model.Card{}).Where("deck_id = ?", deck.ID).Count(&cardCount).Error)
	assert.Zero(t, cardCount)

	// Progress for the deleted deck is gone, other decks untouched.
	gone, err := progress.GetProgress(ctx, user.ID, deck.ID)
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := progress.GetProgress(ctx, user.ID, other.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestListDecks(t *testing.T) {
	svc, _, db := newTestDeckService(t)
	ctx := context.Background()
	subject := createTestSubject(t, db, "MATH")
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.CreateAdminDeck(ctx, deckInput(subject.ID, model.Card{Question: "q", Answer: "a"}))
	require.NoError(t, err)

	_, err = svc.CreateUserDeck(ctx, alice, deckInput(subject.ID, model.Card{Question: "q", Answer: "a"}))
	require.NoError(t, err)

	t.Run("public decks plus own private ones", func(t *testing.T) {
		decks, total, err := svc.ListDecks(ctx, ListDecksOptions{UserID: alice.ID, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, decks, 2)
	})

	t.Run("other users never see private decks", func(t *testing.T) {
		decks, total, err := svc.ListDecks(ctx, ListDecksOptions{UserID: bob.ID, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, decks, 1)
		assert.Equal(t, model.OwnerKindSystem, decks[0].Owner.OwnerKind)
	})
}
