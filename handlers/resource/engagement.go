package resource

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/reviseo/reviseo-api/services"
	"github.com/reviseo/reviseo-api/services/access"
	"github.com/reviseo/reviseo-api/utils/middleware"
	"github.com/reviseo/reviseo-api/utils/response"
	"github.com/reviseo/reviseo-api/utils/validation"
	"gorm.io/gorm"
)

// gate loads a resource and applies the access policy for the current user.
func (h *ResourceHandler) gate(c *fiber.Ctx, resourceID uint) (uint, error) {
	user, ok := middleware.GetUser(c)
	if !ok {
		return 0, response.Unauthorized(c, "User not authenticated")
	}

	resource, err := h.resources.GetResource(c.Context(), resourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, response.NotFound(c, "Resource not found")
		}
		return 0, response.InternalServerError(c, "Failed to load resource")
	}

	status := h.premium.Evaluate(c.Context(), user.ID)
	decision := access.DecideContent(user.ID, resource, status.IsPremium)
	if !decision.Allowed {
		switch decision.Reason {
		case access.DenyNotOwner:
			return 0, response.NotOwner(c)
		default:
			return 0, response.PremiumRequired(c)
		}
	}

	return user.ID, nil
}

// ToggleLike handles POST /api/v1/resources/:id/like
func (h *ResourceHandler) ToggleLike(c *fiber.Ctx) error {
	resourceID, err := c.ParamsInt("id")
	if err != nil || resourceID < 1 {
		return response.BadRequest(c, "Invalid resource ID")
	}

	userID, gateErr := h.gate(c, uint(resourceID))
	if userID == 0 {
		return gateErr
	}

	result, err := h.engagement.ToggleLike(c.Context(), userID, uint(resourceID))
	if err != nil {
		return response.InternalServerError(c, "Failed to toggle like")
	}

	return response.Success(c, result)
}

// CommentRequest represents a new comment
type CommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// AddComment handles POST /api/v1/resources/:id/comments
func (h *ResourceHandler) AddComment(c *fiber.Ctx) error {
	resourceID, err := c.ParamsInt("id")
	if err != nil || resourceID < 1 {
		return response.BadRequest(c, "Invalid resource ID")
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	userID, gateErr := h.gate(c, uint(resourceID))
	if userID == 0 {
		return gateErr
	}

	comment, err := h.engagement.AddComment(c.Context(), userID, uint(resourceID), validation.SanitizeString(req.Text))
	if err != nil {
		if errors.Is(err, services.ErrEmptyComment) {
			return response.BadRequest(c, "Comment text must not be empty")
		}
		return response.InternalServerError(c, "Failed to add comment")
	}

	return response.Created(c, comment)
}

// ListComments handles GET /api/v1/resources/:id/comments
func (h *ResourceHandler) ListComments(c *fiber.Ctx) error {
	resourceID, err := c.ParamsInt("id")
	if err != nil || resourceID < 1 {
		return response.BadRequest(c, "Invalid resource ID")
	}

	userID, gateErr := h.gate(c, uint(resourceID))
	if userID == 0 {
		return gateErr
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	comments, total, err := h.engagement.ListComments(c.Context(), uint(resourceID), limit, (page-1)*limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list comments")
	}

	return response.Paginated(c, comments, response.CalculatePagination(page, limit, total))
}
