package connection

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/reviseo/reviseo-api/services"
	"github.com/reviseo/reviseo-api/utils/middleware"
	"github.com/reviseo/reviseo-api/utils/response"
	"github.com/reviseo/reviseo-api/utils/validation"
	"gorm.io/gorm"
)

// ConnectionHandler exposes the student connection graph
type ConnectionHandler struct {
	connections *services.ConnectionService
	validator   *validation.Validator
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(connections *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{
		connections: connections,
		validator:   validation.NewValidator(),
	}
}

// SendRequest handles POST /api/v1/connections
func (h *ConnectionHandler) SendRequest(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req struct {
		ToUserID uint `json:"to_user_id" validate:"required,min=1"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	request, err := h.connections.SendRequest(c.Context(), userID, req.ToUserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfConnection):
			return response.BadRequest(c, "Cannot send a connection request to yourself")
		case errors.Is(err, services.ErrConnectionExists):
			return response.Conflict(c, "A connection request already exists between these users")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to send connection request")
		}
	}

	return response.Created(c, request)
}

// Accept handles POST /api/v1/connections/:id/accept
func (h *ConnectionHandler) Accept(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	requestID, err := c.ParamsInt("id")
	if err != nil || requestID < 1 {
		return response.BadRequest(c, "Invalid request ID")
	}

	request, err := h.connections.AcceptRequest(c.Context(), uint(requestID), userID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return response.NotFound(c, "Connection request not found")
		case errors.Is(err, services.ErrNotRequestRecipient):
			return response.Forbidden(c, "Only the recipient can accept a connection request")
		default:
			return response.InternalServerError(c, "Failed to accept connection request")
		}
	}

	return response.Success(c, request)
}

// Decline handles DELETE /api/v1/connections/:id
func (h *ConnectionHandler) Decline(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	requestID, err := c.ParamsInt("id")
	if err != nil || requestID < 1 {
		return response.BadRequest(c, "Invalid request ID")
	}

	if err := h.connections.DeclineRequest(c.Context(), uint(requestID), userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Connection request not found")
		}
		return response.InternalServerError(c, "Failed to decline connection request")
	}

	return response.NoContent(c)
}

// List handles GET /api/v1/connections
func (h *ConnectionHandler) List(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	sent, received, err := h.connections.ListRequests(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list connection requests")
	}

	return response.Success(c, fiber.Map{
		"sent":     sent,
		"received": received,
	})
}
