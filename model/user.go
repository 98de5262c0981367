package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered student (or admin) in the system
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	Name         string         `gorm:"not null" json:"name"`
	Role         string         `gorm:"type:varchar(20);default:'student'" json:"role"` // student, admin
	School       string         `gorm:"type:varchar(255)" json:"school"`
	Class        string         `gorm:"type:varchar(50)" json:"class"`   // e.g. "Terminale"
	Series       string         `gorm:"type:varchar(50)" json:"series"`  // e.g. "D", "C"
	Phone        string         `gorm:"type:varchar(30)" json:"phone"`
	Points       int            `gorm:"not null;default:0" json:"points"` // mutated only via atomic increments
	TokenVersion int            `gorm:"default:0" json:"-"`               // Increment to invalidate all user tokens

	// Relationships
	PremiumGrant      *PremiumGrant       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	SavedCourses      []SavedCourse       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	SavedResources    []SavedResource     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CardProgress      []CardProgress      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	NotificationReads []NotificationRead  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	SentRequests      []ConnectionRequest `gorm:"foreignKey:FromUserID;constraint:OnDelete:CASCADE" json:"-"`
	ReceivedRequests  []ConnectionRequest `gorm:"foreignKey:ToUserID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// SavedCourse bookmarks a course on a user's profile
type SavedCourse struct {
	UserID   uint  `gorm:"primaryKey" json:"user_id"`
	CourseID uint  `gorm:"primaryKey" json:"course_id"`
	SavedAt  int64 `gorm:"autoCreateTime" json:"saved_at"`

	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}

// SavedResource bookmarks a resource on a user's profile
type SavedResource struct {
	UserID     uint  `gorm:"primaryKey" json:"user_id"`
	ResourceID uint  `gorm:"primaryKey" json:"resource_id"`
	SavedAt    int64 `gorm:"autoCreateTime" json:"saved_at"`

	Resource Resource `gorm:"foreignKey:ResourceID;constraint:OnDelete:CASCADE" json:"resource,omitempty"`
}
