package model

import (
	"time"

	"gorm.io/gorm"
)

// Subject represents an academic subject (e.g. Mathématiques, SVT)
type Subject struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	Code      string         `gorm:"uniqueIndex;not null" json:"code"`

	// Relationships
	Courses   []Course        `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"courses,omitempty"`
	Resources []Resource      `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"resources,omitempty"`
	Decks     []FlashcardDeck `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"-"`
}
