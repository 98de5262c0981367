package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Course is a structured lesson (chapters of the official curriculum)
// published to one or more classes and series.
type Course struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"type:text" json:"content"`
	SubjectID uint           `gorm:"not null;index" json:"subject_id"`
	IsPublic  bool           `gorm:"not null;default:false" json:"is_public"`
	Classes   pq.StringArray `gorm:"type:text[]" json:"classes"`
	Series    pq.StringArray `gorm:"type:text[]" json:"series"`
	Owner     Owner          `gorm:"embedded" json:"owner"`

	Subject Subject `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"subject,omitempty"`
}
