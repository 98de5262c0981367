package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminNotification is a platform-wide announcement pushed by the admin team
type AdminNotification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Title     string         `gorm:"not null" json:"title"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"` // optional link target, campaign tag

	Reads []NotificationRead `gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for AdminNotification
func (AdminNotification) TableName() string {
	return "admin_notifications"
}

// NotificationRead records that a user has read an admin notification
type NotificationRead struct {
	UserID         uint  `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	NotificationID uint  `gorm:"primaryKey;autoIncrement:false" json:"notification_id"`
	ReadAt         int64 `gorm:"autoCreateTime" json:"read_at"`
}

// TableName specifies the table name for NotificationRead
func (NotificationRead) TableName() string {
	return "notification_reads"
}
