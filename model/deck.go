package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// FlashcardDeck represents a named collection of question/answer cards.
// Admin-created decks can target several classes and series; a student-created
// deck is always private and targets exactly the creator's class/series.
type FlashcardDeck struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Title     string         `gorm:"not null" json:"title"`
	SubjectID uint           `gorm:"not null;index" json:"subject_id"`
	IsPublic  bool           `gorm:"not null;default:false" json:"is_public"`
	Classes   pq.StringArray `gorm:"type:text[]" json:"classes"`
	Series    pq.StringArray `gorm:"type:text[]" json:"series"`
	Owner     Owner          `gorm:"embedded" json:"owner"`

	// Relationships
	Subject Subject `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"subject,omitempty"`
	Cards   []Card  `gorm:"foreignKey:DeckID;constraint:OnDelete:CASCADE" json:"cards,omitempty"`
}

// TableName specifies the table name for FlashcardDeck
func (FlashcardDeck) TableName() string {
	return "flashcard_decks"
}

// Card is a single question/answer pair inside a deck
type Card struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	DeckID    uint      `gorm:"not null;index" json:"deck_id"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
}
