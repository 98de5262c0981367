package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/reviseo/reviseo-api/model"
	"gorm.io/gorm"
)

var (
	// ErrSelfConnection rejects requests from a user to themselves
	ErrSelfConnection = errors.New("cannot send a connection request to yourself")
	// ErrConnectionExists rejects duplicate requests for the same pair
	ErrConnectionExists = errors.New("a connection request already exists between these users")
	// ErrNotRequestRecipient rejects accepts by anyone but the recipient
	ErrNotRequestRecipient = errors.New("only the recipient can accept a connection request")
)

// ConnectionService manages the student connection graph.
type ConnectionService struct {
	db *gorm.DB
}

// NewConnectionService creates a new connection service
func NewConnectionService(db *gorm.DB) *ConnectionService {
	return &ConnectionService{db: db}
}

// SendRequest creates a pending edge from one student to another.
func (s *ConnectionService) SendRequest(ctx context.Context, fromUserID, toUserID uint) (*model.ConnectionRequest, error) {
	if fromUserID == toUserID {
		return nil, ErrSelfConnection
	}

	var target model.User
	if err := s.db.WithContext(ctx).Select("id").First(&target, toUserID).Error; err != nil {
		return nil, err
	}

	// A pair is connected (or pending) in either direction at most once
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ConnectionRequest{}).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			fromUserID, toUserID, toUserID, fromUserID).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing connection: %w", err)
	}
	if count > 0 {
		return nil, ErrConnectionExists
	}

	request := &model.ConnectionRequest{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     model.ConnectionStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create connection request: %w", err)
	}
	return request, nil
}

// AcceptRequest marks a pending request accepted. Only the recipient may
// accept.
func (s *ConnectionService) AcceptRequest(ctx context.Context, requestID, userID uint) (*model.ConnectionRequest, error) {
	var request model.ConnectionRequest
	if err := s.db.WithContext(ctx).First(&request, requestID).Error; err != nil {
		return nil, err
	}

	if request.ToUserID != userID {
		return nil, ErrNotRequestRecipient
	}

	request.Status = model.ConnectionStatusAccepted
	if err := s.db.WithContext(ctx).Save(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to accept connection request: %w", err)
	}
	return &request, nil
}

// DeclineRequest removes a pending request. Either party may remove the edge.
func (s *ConnectionService) DeclineRequest(ctx context.Context, requestID, userID uint) error {
	var request model.ConnectionRequest
	if err := s.db.WithContext(ctx).First(&request, requestID).Error; err != nil {
		return err
	}

	if request.ToUserID != userID && request.FromUserID != userID {
		return ErrNotRequestRecipient
	}

	// Hard delete so the unique pair index does not block a later retry.
	return s.db.WithContext(ctx).Unscoped().Delete(&request).Error
}

// ListRequests returns the user's sent and received edges.
func (s *ConnectionService) ListRequests(ctx context.Context, userID uint) (sent, received []model.ConnectionRequest, err error) {
	userFields := func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "school", "class", "series")
	}

	err = s.db.WithContext(ctx).Preload("ToUser", userFields).
		Where("from_user_id = ?", userID).
		Order("created_at DESC").
		Find(&sent).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list sent requests: %w", err)
	}

	err = s.db.WithContext(ctx).Preload("FromUser", userFields).
		Where("to_user_id = ?", userID).
		Order("created_at DESC").
		Find(&received).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list received requests: %w", err)
	}

	return sent, received, nil
}
