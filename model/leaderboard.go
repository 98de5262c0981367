package model

// LeaderboardExclusion marks a user as hidden from the public ranking.
// The table doubles as the global exclusion set: membership is one row,
// created lazily on first exclusion.
type LeaderboardExclusion struct {
	UserID     uint  `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ExcludedAt int64 `gorm:"autoCreateTime" json:"excluded_at"`
}

// TableName specifies the table name for LeaderboardExclusion
func (LeaderboardExclusion) TableName() string {
	return "leaderboard_exclusions"
}
