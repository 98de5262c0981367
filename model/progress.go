package model

import (
	"time"
)

// CardStatus is a user's mastery state for a single card
type CardStatus string

const (
	CardStatusLearning CardStatus = "learning"
	CardStatusMastered CardStatus = "mastered"
)

// Valid reports whether s is a known card status.
func (s CardStatus) Valid() bool {
	return s == CardStatusLearning || s == CardStatusMastered
}

// CardProgress stores one reviewed card's status for one user. A row exists
// only once the user has explicitly reviewed the card; absence means
// "not yet studied". One row per card keeps sibling updates independent.
type CardProgress struct {
	UserID    uint       `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	DeckID    uint       `gorm:"primaryKey;autoIncrement:false;index" json:"deck_id"`
	CardID    uint       `gorm:"primaryKey;autoIncrement:false" json:"card_id"`
	Status    CardStatus `gorm:"type:varchar(10);not null" json:"status"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName specifies the table name for CardProgress
func (CardProgress) TableName() string {
	return "card_progress"
}
