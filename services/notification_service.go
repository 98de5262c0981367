package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/reviseo/reviseo-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationService handles admin announcements and per-user read tracking
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// BroadcastRequest carries a new admin announcement
type BroadcastRequest struct {
	Title    string
	Message  string
	Metadata map[string]interface{}
}

// Broadcast publishes an announcement visible to all students.
func (s *NotificationService) Broadcast(ctx context.Context, req BroadcastRequest) (*model.AdminNotification, error) {
	notification := &model.AdminNotification{
		Title:   req.Title,
		Message: req.Message,
	}

	if req.Metadata != nil {
		metadataJSON, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		notification.Metadata = datatypes.JSON(metadataJSON)
	}

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	log.Printf("Broadcast admin notification %d: %s", notification.ID, req.Title)
	return notification, nil
}

// NotificationView is a notification annotated with the caller's read state
type NotificationView struct {
	model.AdminNotification
	Read bool `json:"read"`
}

// ListForUser returns announcements newest first with the user's read flags.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]NotificationView, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.AdminNotification{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var notifications []model.AdminNotification
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	ids := make([]uint, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.ID)
	}

	readSet := make(map[uint]bool, len(ids))
	if len(ids) > 0 {
		var reads []model.NotificationRead
		err = s.db.WithContext(ctx).
			Where("user_id = ? AND notification_id IN ?", userID, ids).
			Find(&reads).Error
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load read state: %w", err)
		}
		for _, r := range reads {
			readSet[r.NotificationID] = true
		}
	}

	views := make([]NotificationView, len(notifications))
	for i, n := range notifications {
		views[i] = NotificationView{AdminNotification: n, Read: readSet[n.ID]}
	}
	return views, total, nil
}

// MarkRead records that the user has read a notification. Marking twice is
// a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	var notification model.AdminNotification
	if err := s.db.WithContext(ctx).Select("id").First(&notification, notificationID).Error; err != nil {
		return err
	}

	row := model.NotificationRead{UserID: userID, NotificationID: notificationID}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to mark notification %d read: %w", notificationID, err)
	}
	return nil
}
