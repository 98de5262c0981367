package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/reviseo/reviseo-api/model"
	"github.com/reviseo/reviseo-api/utils/middleware"
	"github.com/reviseo/reviseo-api/utils/response"
	"github.com/reviseo/reviseo-api/utils/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetProfile handles GET /api/v1/profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	return response.Success(c, toUserResponse(user))
}

// UpdateProfileRequest represents a profile update
type UpdateProfileRequest struct {
	Name   string `json:"name" validate:"omitempty,min=2,max=100"`
	School string `json:"school" validate:"omitempty,max=255"`
	Class  string `json:"class" validate:"omitempty,max=50"`
	Series string `json:"series" validate:"omitempty,max=50"`
	Phone  string `json:"phone" validate:"omitempty,max=30"`
}

// UpdateProfile handles PUT /api/v1/profile
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Name != "" {
		user.Name = validation.SanitizeString(req.Name)
	}
	if req.School != "" {
		user.School = validation.SanitizeString(req.School)
	}
	if req.Class != "" {
		user.Class = validation.SanitizeString(req.Class)
	}
	if req.Series != "" {
		user.Series = validation.SanitizeString(req.Series)
	}
	if req.Phone != "" {
		user.Phone = validation.SanitizeString(req.Phone)
	}

	if err := h.db.Save(user).Error; err != nil {
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.Success(c, toUserResponse(user))
}

// SaveCourse handles POST /api/v1/profile/saved-courses/:id
func (h *AuthHandler) SaveCourse(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return response.BadRequest(c, "Invalid course ID")
	}

	var course model.Course
	if err := h.db.Select("id").First(&course, courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to verify course")
	}

	row := model.SavedCourse{UserID: user.ID, CourseID: uint(courseID)}
	if err := h.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return response.InternalServerError(c, "Failed to save course")
	}

	return response.SuccessWithMessage(c, "Course saved", nil)
}

// UnsaveCourse handles DELETE /api/v1/profile/saved-courses/:id
func (h *AuthHandler) UnsaveCourse(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return response.BadRequest(c, "Invalid course ID")
	}

	err = h.db.Delete(&model.SavedCourse{}, "user_id = ? AND course_id = ?", user.ID, courseID).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to unsave course")
	}

	return response.NoContent(c)
}

// ListSavedCourses handles GET /api/v1/profile/saved-courses
func (h *AuthHandler) ListSavedCourses(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var saved []model.SavedCourse
	err := h.db.Preload("Course").Preload("Course.Subject").
		Where("user_id = ?", user.ID).
		Find(&saved).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to load saved courses")
	}

	return response.Success(c, saved)
}

// SaveResource handles POST /api/v1/profile/saved-resources/:id
func (h *AuthHandler) SaveResource(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	resourceID, err := c.ParamsInt("id")
	if err != nil || resourceID < 1 {
		return response.BadRequest(c, "Invalid resource ID")
	}

	var resource model.Resource
	if err := h.db.Select("id").First(&resource, resourceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Resource not found")
		}
		return response.InternalServerError(c, "Failed to verify resource")
	}

	row := model.SavedResource{UserID: user.ID, ResourceID: uint(resourceID)}
	if err := h.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return response.InternalServerError(c, "Failed to save resource")
	}

	return response.SuccessWithMessage(c, "Resource saved", nil)
}

// UnsaveResource handles DELETE /api/v1/profile/saved-resources/:id
func (h *AuthHandler) UnsaveResource(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	resourceID, err := c.ParamsInt("id")
	if err != nil || resourceID < 1 {
		return response.BadRequest(c, "Invalid resource ID")
	}

	err = h.db.Delete(&model.SavedResource{}, "user_id = ? AND resource_id = ?", user.ID, resourceID).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to unsave resource")
	}

	return response.NoContent(c)
}

// ListSavedResources handles GET /api/v1/profile/saved-resources
func (h *AuthHandler) ListSavedResources(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var saved []model.SavedResource
	err := h.db.Preload("Resource").Preload("Resource.Subject").
		Where("user_id = ?", user.ID).
		Find(&saved).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to load saved resources")
	}

	return response.Success(c, saved)
}
