package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/reviseo/reviseo-api/model"
	"gorm.io/gorm"
)

var (
	// ErrEmptyComment is returned when the comment text is blank
	ErrEmptyComment = errors.New("comment text must not be empty")
)

// LikeResult reflects the post-commit state of a like toggle
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// EngagementService owns likes and comments on resources. All counter
// mutations go through here so the denormalized like_count/comment_count
// columns can never drift from the underlying rows.
type EngagementService struct {
	db *gorm.DB
}

// NewEngagementService creates a new engagement service
func NewEngagementService(db *gorm.DB) *EngagementService {
	return &EngagementService{db: db}
}

// ToggleLike flips the user's like on a resource inside one transaction:
// membership probe, insert or delete, and the matching counter adjustment all
// commit or roll back together, so concurrent toggles by different users
// never lose an increment. A resource nobody has liked needs no
// initialization, the zero counter and empty like set are implicit.
func (s *EngagementService) ToggleLike(ctx context.Context, userID, resourceID uint) (*LikeResult, error) {
	var liked bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var resource model.Resource
		if err := tx.Select("id").First(&resource, resourceID).Error; err != nil {
			return err
		}

		var existing model.ResourceLike
		err := tx.Where("user_id = ? AND resource_id = ?", userID, resourceID).
			First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Resource{}).Where("id = ?", resourceID).
				UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error; err != nil {
				return err
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			like := model.ResourceLike{UserID: userID, ResourceID: resourceID}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Resource{}).Where("id = ?", resourceID).
				UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
				return err
			}
			liked = true
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like on resource %d: %w", resourceID, err)
	}

	// Re-read after commit so the returned count reflects the committed state
	var resource model.Resource
	if err := s.db.WithContext(ctx).Select("like_count").First(&resource, resourceID).Error; err != nil {
		return nil, fmt.Errorf("failed to re-read like count: %w", err)
	}

	return &LikeResult{Liked: liked, LikeCount: resource.LikeCount}, nil
}

// AddComment appends a comment and bumps the resource's comment counter.
// Both writes ride the same transaction, so the counter can never understate
// the stored comments.
func (s *EngagementService) AddComment(ctx context.Context, userID, resourceID uint, text string) (*model.Comment, error) {
	if text == "" {
		return nil, ErrEmptyComment
	}

	comment := &model.Comment{
		ResourceID: resourceID,
		UserID:     userID,
		Text:       text,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var resource model.Resource
		if err := tx.Select("id").First(&resource, resourceID).Error; err != nil {
			return err
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&model.Resource{}).Where("id = ?", resourceID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add comment on resource %d: %w", resourceID, err)
	}

	return comment, nil
}

// ListComments returns a page of comments for a resource, newest first.
func (s *EngagementService) ListComments(ctx context.Context, resourceID uint, limit, offset int) ([]model.Comment, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Comment{}).Where("resource_id = ?", resourceID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	var comments []model.Comment
	err := query.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "class", "series")
	}).Order("created_at DESC").Limit(limit).Offset(offset).Find(&comments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, total, nil
}

// HasLiked reports whether the user currently likes the resource.
func (s *EngagementService) HasLiked(ctx context.Context, userID, resourceID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ResourceLike{}).
		Where("user_id = ? AND resource_id = ?", userID, resourceID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return count > 0, nil
}
