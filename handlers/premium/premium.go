package premium

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/reviseo/reviseo-api/model"
	"github.com/reviseo/reviseo-api/services"
	"github.com/reviseo/reviseo-api/utils/middleware"
	"github.com/reviseo/reviseo-api/utils/response"
	"github.com/reviseo/reviseo-api/utils/validation"
	"gorm.io/gorm"
)

// PremiumHandler exposes premium grant management and status lookups
type PremiumHandler struct {
	db        *gorm.DB
	premium   *services.PremiumService
	validator *validation.Validator
}

// NewPremiumHandler creates a new premium handler
func NewPremiumHandler(db *gorm.DB, premium *services.PremiumService) *PremiumHandler {
	return &PremiumHandler{
		db:        db,
		premium:   premium,
		validator: validation.NewValidator(),
	}
}

// ActivateRequest represents an admin premium activation
type ActivateRequest struct {
	UserID   uint   `json:"user_id" validate:"required,min=1"`
	Duration string `json:"duration" validate:"required,oneof=week month year"`
}

// Activate handles POST /api/v1/admin/premium/activate
func (h *PremiumHandler) Activate(c *fiber.Ctx) error {
	var req ActivateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var user model.User
	if err := h.db.Select("id").First(&user, req.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to verify user")
	}

	grant, err := h.premium.Activate(c.Context(), req.UserID, model.PremiumDuration(req.Duration))
	if err != nil {
		if errors.Is(err, services.ErrInvalidDuration) {
			return response.BadRequest(c, "Invalid premium duration")
		}
		return response.InternalServerError(c, "Failed to activate premium")
	}

	return response.SuccessWithMessage(c, "Premium activated", grant)
}

// Deactivate handles POST /api/v1/admin/premium/deactivate
func (h *PremiumHandler) Deactivate(c *fiber.Ctx) error {
	var req struct {
		UserID uint `json:"user_id" validate:"required,min=1"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.premium.Deactivate(c.Context(), req.UserID); err != nil {
		return response.InternalServerError(c, "Failed to deactivate premium")
	}

	return response.SuccessWithMessage(c, "Premium deactivated", nil)
}

// Status handles GET /api/v1/premium/status
func (h *PremiumHandler) Status(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	status := h.premium.Evaluate(c.Context(), userID)
	return response.Success(c, status)
}

// StatusFor handles GET /api/v1/admin/premium/status/:id
func (h *PremiumHandler) StatusFor(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var user model.User
	if err := h.db.Select("id").First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to verify user")
	}

	status := h.premium.Evaluate(c.Context(), uint(id))
	return response.Success(c, status)
}
