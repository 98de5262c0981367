package services

import (
	"fmt"
	"testing"

	"github.com/reviseo/reviseo-api/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway in-memory database and migrates every model the
// services touch. Each test gets its own database, so tests stay independent.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second pooled connection would see an empty database, every
	// in-memory connection is its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.User{},
		&model.PremiumGrant{},
		&model.Subject{},
		&model.Course{},
		&model.SavedCourse{},
		&model.SavedResource{},
		&model.Resource{},
		&model.ResourceLike{},
		&model.Comment{},
		&model.FlashcardDeck{},
		&model.Card{},
		&model.CardProgress{},
		&model.LeaderboardExclusion{},
		&model.AdminNotification{},
		&model.NotificationRead{},
		&model.ConnectionRequest{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()

	user := &model.User{
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "x",
		Name:         name,
		Class:        "Terminale",
		Series:       "D",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestSubject(t *testing.T, db *gorm.DB, code string) *model.Subject {
	t.Helper()

	subject := &model.Subject{Name: "Subject " + code, Code: code}
	require.NoError(t, db.Create(subject).Error)
	return subject
}
