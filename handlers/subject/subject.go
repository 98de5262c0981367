package subject

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/reviseo/reviseo-api/model"
	"github.com/reviseo/reviseo-api/utils/response"
	"github.com/reviseo/reviseo-api/utils/validation"
	"gorm.io/gorm"
)

// SubjectHandler exposes the subject catalog
type SubjectHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewSubjectHandler creates a new subject handler
func NewSubjectHandler(db *gorm.DB) *SubjectHandler {
	return &SubjectHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// SubjectRequest represents a subject create/update payload
type SubjectRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
	Code string `json:"code" validate:"required,min=1,max=20"`
}

// List handles GET /api/v1/subjects
func (h *SubjectHandler) List(c *fiber.Ctx) error {
	var subjects []model.Subject
	if err := h.db.Order("name ASC").Find(&subjects).Error; err != nil {
		return response.InternalServerError(c, "Failed to list subjects")
	}
	return response.Success(c, subjects)
}

// Create handles POST /api/v1/admin/subjects
func (h *SubjectHandler) Create(c *fiber.Ctx) error {
	var req SubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	subject := model.Subject{
		Name: validation.SanitizeString(req.Name),
		Code: validation.SanitizeString(req.Code),
	}
	if err := h.db.Create(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.Conflict(c, "A subject with this code already exists")
		}
		return response.InternalServerError(c, "Failed to create subject")
	}

	return response.Created(c, subject)
}

// Update handles PUT /api/v1/admin/subjects/:id
func (h *SubjectHandler) Update(c *fiber.Ctx) error {
	subjectID, err := c.ParamsInt("id")
	if err != nil || subjectID < 1 {
		return response.BadRequest(c, "Invalid subject ID")
	}

	var req SubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var subject model.Subject
	if err := h.db.First(&subject, subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Subject not found")
		}
		return response.InternalServerError(c, "Failed to load subject")
	}

	subject.Name = validation.SanitizeString(req.Name)
	subject.Code = validation.SanitizeString(req.Code)
	if err := h.db.Save(&subject).Error; err != nil {
		return response.InternalServerError(c, "Failed to update subject")
	}

	return response.Success(c, subject)
}

// Delete handles DELETE /api/v1/admin/subjects/:id
func (h *SubjectHandler) Delete(c *fiber.Ctx) error {
	subjectID, err := c.ParamsInt("id")
	if err != nil || subjectID < 1 {
		return response.BadRequest(c, "Invalid subject ID")
	}

	var count int64
	h.db.Model(&model.Course{}).Where("subject_id = ?", subjectID).Count(&count)
	if count > 0 {
		return response.Conflict(c, "Subject still has courses attached")
	}

	if err := h.db.Delete(&model.Subject{}, subjectID).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete subject")
	}

	return response.NoContent(c)
}
