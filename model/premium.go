package model

import (
	"time"
)

// PremiumDuration is the billing class of a premium grant
type PremiumDuration string

const (
	PremiumDurationWeek  PremiumDuration = "week"
	PremiumDurationMonth PremiumDuration = "month"
	// An academic year runs September to June, so the "year" plan
	// covers 9 calendar months, not 12.
	PremiumDurationYear PremiumDuration = "year"
)

// Valid reports whether d is one of the known duration classes.
func (d PremiumDuration) Valid() bool {
	switch d {
	case PremiumDurationWeek, PremiumDurationMonth, PremiumDurationYear:
		return true
	}
	return false
}

// EndDateFrom computes the grant end date for this duration class.
func (d PremiumDuration) EndDateFrom(start time.Time) time.Time {
	switch d {
	case PremiumDurationWeek:
		return start.AddDate(0, 0, 7)
	case PremiumDurationMonth:
		return start.AddDate(0, 1, 0)
	case PremiumDurationYear:
		return start.AddDate(0, 9, 0)
	}
	return start
}

// PremiumGrant is the single premium entitlement record for a user.
// At most one grant exists per user; activation fully replaces it.
type PremiumGrant struct {
	UserID    uint            `gorm:"primaryKey" json:"user_id"`
	StartDate time.Time       `gorm:"not null" json:"start_date"`
	EndDate   time.Time       `gorm:"not null;index" json:"end_date"`
	Duration  PremiumDuration `gorm:"type:varchar(10);not null" json:"duration"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name for PremiumGrant
func (PremiumGrant) TableName() string {
	return "premium_grants"
}

// PremiumStatus is the derived entitlement state, recomputed on every read
// and never stored.
type PremiumStatus struct {
	IsPremium bool       `json:"is_premium"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
