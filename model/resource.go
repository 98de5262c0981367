package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Resource is a shareable study document (past paper, exercise sheet, ...).
// LikeCount and CommentCount are denormalized counters that must always equal
// the number of resource_likes rows / comments rows; every mutation of those
// tables goes through EngagementService so both sides move together.
type Resource struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	SubjectID    uint           `gorm:"not null;index" json:"subject_id"`
	IsPublic     bool           `gorm:"not null;default:false" json:"is_public"`
	Classes      pq.StringArray `gorm:"type:text[]" json:"classes"`
	Series       pq.StringArray `gorm:"type:text[]" json:"series"`
	Owner        Owner          `gorm:"embedded" json:"owner"`
	FileKey      string         `gorm:"type:varchar(255)" json:"file_key,omitempty"` // Spaces object key
	LikeCount    int            `gorm:"not null;default:0" json:"like_count"`
	CommentCount int            `gorm:"not null;default:0" json:"comment_count"`

	// Relationships
	Subject  Subject        `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"subject,omitempty"`
	Likes    []ResourceLike `gorm:"foreignKey:ResourceID;constraint:OnDelete:CASCADE" json:"-"`
	Comments []Comment      `gorm:"foreignKey:ResourceID;constraint:OnDelete:CASCADE" json:"-"`
}

// ResourceLike is one user's like on one resource
type ResourceLike struct {
	UserID     uint  `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ResourceID uint  `gorm:"primaryKey;autoIncrement:false;index" json:"resource_id"`
	LikedAt    int64 `gorm:"autoCreateTime" json:"liked_at"`
}

// TableName specifies the table name for ResourceLike
func (ResourceLike) TableName() string {
	return "resource_likes"
}

// Comment is a user comment on a resource
type Comment struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	ResourceID uint           `gorm:"not null;index" json:"resource_id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	Text       string         `gorm:"type:text;not null" json:"text"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}
