package notification

import (
	"github.com/gofiber/fiber/v2"
	"github.com/reviseo/reviseo-api/services"
	"github.com/reviseo/reviseo-api/utils/middleware"
	"github.com/reviseo/reviseo-api/utils/response"
	"github.com/reviseo/reviseo-api/utils/validation"
)

// NotificationHandler exposes admin announcements and per-user read state
type NotificationHandler struct {
	notifications *services.NotificationService
	validator     *validation.Validator
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		validator:     validation.NewValidator(),
	}
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	views, total, err := h.notifications.ListForUser(c.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list notifications")
	}

	return response.Paginated(c, views, response.CalculatePagination(page, limit, total))
}

// MarkRead handles POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	notificationID, err := c.ParamsInt("id")
	if err != nil || notificationID < 1 {
		return response.BadRequest(c, "Invalid notification ID")
	}

	if err := h.notifications.MarkRead(c.Context(), userID, uint(notificationID)); err != nil {
		return response.InternalServerError(c, "Failed to mark notification read")
	}

	return response.SuccessWithMessage(c, "Notification marked read", nil)
}

// BroadcastRequest represents an admin announcement
type BroadcastRequest struct {
	Title    string                 `json:"title" validate:"required,min=2,max=200"`
	Message  string                 `json:"message" validate:"required,min=1,max=5000"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Broadcast handles POST /api/v1/admin/notifications
func (h *NotificationHandler) Broadcast(c *fiber.Ctx) error {
	var req BroadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	notification, err := h.notifications.Broadcast(c.Context(), services.BroadcastRequest{
		Title:    validation.SanitizeString(req.Title),
		Message:  validation.SanitizeString(req.Message),
		Metadata: req.Metadata,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to broadcast notification")
	}

	return response.Created(c, notification)
}
