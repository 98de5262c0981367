package model

import (
	"time"

	"gorm.io/gorm"
)

// ConnectionStatus is the lifecycle state of a peer connection request
type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
)

// ConnectionRequest is a directed edge in the student connection graph.
// The sender's "sent" list and the receiver's "received" list are both
// views over these rows.
type ConnectionRequest struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	DeletedAt  gorm.DeletedAt   `gorm:"index" json:"-"`
	FromUserID uint             `gorm:"not null;index:idx_connection_pair,unique" json:"from_user_id"`
	ToUserID   uint             `gorm:"not null;index:idx_connection_pair,unique" json:"to_user_id"`
	Status     ConnectionStatus `gorm:"type:varchar(10);not null;default:'pending'" json:"status"`

	FromUser User `gorm:"foreignKey:FromUserID;constraint:OnDelete:CASCADE" json:"from_user,omitempty"`
	ToUser   User `gorm:"foreignKey:ToUserID;constraint:OnDelete:CASCADE" json:"to_user,omitempty"`
}

// TableName specifies the table name for ConnectionRequest
func (ConnectionRequest) TableName() string {
	return "connection_requests"
}
