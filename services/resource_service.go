package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/reviseo/reviseo-api/model"
	"github.com/reviseo/reviseo-api/services/storage"
	"gorm.io/gorm"
)

// NewResourceInput carries the fields needed to create a resource
type NewResourceInput struct {
	Title       string
	Description string
	SubjectID   uint
	IsPublic    bool
	Classes     []string
	Series      []string
}

// ResourceService owns shared study resources and their attached files.
type ResourceService struct {
	db     *gorm.DB
	spaces *storage.SpacesClient // optional, nil disables file uploads
}

// NewResourceService creates a new resource service
func NewResourceService(db *gorm.DB, spaces *storage.SpacesClient) *ResourceService {
	return &ResourceService{db: db, spaces: spaces}
}

// CreateAdminResource publishes a platform resource with broad targeting.
func (s *ResourceService) CreateAdminResource(ctx context.Context, input NewResourceInput) (*model.Resource, error) {
	return s.create(ctx, input, model.SystemOwner())
}

// CreateUserResource creates a student's own resource: always private,
// targeted at the creator's class and series only.
func (s *ResourceService) CreateUserResource(ctx context.Context, user *model.User, input NewResourceInput) (*model.Resource, error) {
	input.IsPublic = false
	input.Classes = []string{user.Class}
	input.Series = []string{user.Series}
	return s.create(ctx, input, model.UserOwner(user.ID))
}

func (s *ResourceService) create(ctx context.Context, input NewResourceInput, owner model.Owner) (*model.Resource, error) {
	resource := &model.Resource{
		Title:       input.Title,
		Description: input.Description,
		SubjectID:   input.SubjectID,
		IsPublic:    input.IsPublic,
		Classes:     input.Classes,
		Series:      input.Series,
		Owner:       owner,
	}
	if err := s.db.WithContext(ctx).Create(resource).Error; err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return resource, nil
}

// GetResource loads a single resource.
func (s *ResourceService) GetResource(ctx context.Context, resourceID uint) (*model.Resource, error) {
	var resource model.Resource
	err := s.db.WithContext(ctx).Preload("Subject").First(&resource, resourceID).Error
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

// UpdateResource updates metadata on an existing resource.
func (s *ResourceService) UpdateResource(ctx context.Context, resourceID uint, input NewResourceInput) (*model.Resource, error) {
	var resource model.Resource
	if err := s.db.WithContext(ctx).First(&resource, resourceID).Error; err != nil {
		return nil, err
	}

	resource.Title = input.Title
	resource.Description = input.Description
	resource.SubjectID = input.SubjectID
	resource.IsPublic = input.IsPublic
	resource.Classes = input.Classes
	resource.Series = input.Series

	if err := s.db.WithContext(ctx).Save(&resource).Error; err != nil {
		return nil, fmt.Errorf("failed to update resource %d: %w", resourceID, err)
	}
	return &resource, nil
}

// DeleteResource removes a resource with its likes and comments, then drops
// the stored file best-effort.
func (s *ResourceService) DeleteResource(ctx context.Context, resourceID uint) error {
	var resource model.Resource
	if err := s.db.WithContext(ctx).First(&resource, resourceID).Error; err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("resource_id = ?", resourceID).Delete(&model.ResourceLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("resource_id = ?", resourceID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("resource_id = ?", resourceID).Delete(&model.SavedResource{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Resource{}, resourceID).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete resource %d: %w", resourceID, err)
	}

	if resource.FileKey != "" && s.spaces != nil {
		if err := s.spaces.Delete(ctx, resource.FileKey); err != nil {
			log.Printf("failed to delete file %s for resource %d: %v", resource.FileKey, resourceID, err)
		}
	}
	return nil
}

// AttachFile uploads a validated PDF and records its key on the resource.
func (s *ResourceService) AttachFile(ctx context.Context, resourceID uint, file *multipart.FileHeader) (*model.Resource, error) {
	if s.spaces == nil {
		return nil, fmt.Errorf("file storage is not configured")
	}

	var resource model.Resource
	if err := s.db.WithContext(ctx).First(&resource, resourceID).Error; err != nil {
		return nil, err
	}

	content, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer content.Close()

	key := fmt.Sprintf("resources/%d/%s%s", resourceID, uuid.New().String(), filepath.Ext(file.Filename))
	if _, err := s.spaces.Upload(ctx, key, content, "application/pdf"); err != nil {
		return nil, err
	}

	oldKey := resource.FileKey
	resource.FileKey = key
	if err := s.db.WithContext(ctx).Save(&resource).Error; err != nil {
		return nil, fmt.Errorf("failed to record file key: %w", err)
	}

	if oldKey != "" {
		if err := s.spaces.Delete(ctx, oldKey); err != nil {
			log.Printf("failed to delete replaced file %s: %v", oldKey, err)
		}
	}
	return &resource, nil
}

// FileURL returns the public URL of a resource's file, empty when none is
// attached.
func (s *ResourceService) FileURL(resource *model.Resource) string {
	if resource.FileKey == "" || s.spaces == nil {
		return ""
	}
	return s.spaces.URL(resource.FileKey)
}

// ListResourcesOptions filters the resource listing
type ListResourcesOptions struct {
	SubjectID uint
	Class     string
	Series    string
	UserID    uint
	Limit     int
	Offset    int
}

// ListResources returns public resources for the class/series plus the
// requesting user's private ones, newest first.
func (s *ResourceService) ListResources(ctx context.Context, opts ListResourcesOptions) ([]model.Resource, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Resource{})

	if opts.UserID != 0 {
		query = query.Where("(is_public = ?) OR (owner_kind = ? AND owner_user_id = ?)",
			true, model.OwnerKindUser, opts.UserID)
	} else {
		query = query.Where("is_public = ?", true)
	}
	if opts.SubjectID != 0 {
		query = query.Where("subject_id = ?", opts.SubjectID)
	}
	if opts.Class != "" {
		query = query.Where("? = ANY(classes)", opts.Class)
	}
	if opts.Series != "" {
		query = query.Where("? = ANY(series)", opts.Series)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count resources: %w", err)
	}

	var resources []model.Resource
	err := query.Preload("Subject").
		Order("created_at DESC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&resources).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list resources: %w", err)
	}

	return resources, total, nil
}
