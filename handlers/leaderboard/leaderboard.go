package leaderboard

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/reviseo/reviseo-api/model"
	"github.com/reviseo/reviseo-api/services"
	"github.com/reviseo/reviseo-api/utils/response"
	"github.com/reviseo/reviseo-api/utils/validation"
	"gorm.io/gorm"
)

// LeaderboardHandler exposes the points leaderboard and its exclusion list
type LeaderboardHandler struct {
	db          *gorm.DB
	leaderboard *services.LeaderboardService
	validator   *validation.Validator
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(db *gorm.DB, leaderboard *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		db:          db,
		leaderboard: leaderboard,
		validator:   validation.NewValidator(),
	}
}

// Top handles GET /api/v1/leaderboard
func (h *LeaderboardHandler) Top(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 100 {
		limit = 50
	}

	entries, err := h.leaderboard.TopStudents(c.Context(), limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to load leaderboard")
	}

	return response.Success(c, entries)
}

// ExclusionRequest represents an admin exclusion toggle
type ExclusionRequest struct {
	UserID   uint `json:"user_id" validate:"required,min=1"`
	Excluded bool `json:"excluded"`
}

// SetExclusion handles PUT /api/v1/admin/leaderboard/exclusions
func (h *LeaderboardHandler) SetExclusion(c *fiber.Ctx) error {
	var req ExclusionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var user model.User
	if err := h.db.Select("id").First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to verify user")
	}

	if err := h.leaderboard.ToggleExclusion(c.Context(), req.UserID, req.Excluded); err != nil {
		return response.InternalServerError(c, "Failed to update exclusion")
	}

	return response.SuccessWithMessage(c, "Exclusion updated", fiber.Map{
		"user_id":  req.UserID,
		"excluded": req.Excluded,
	})
}

// GetExclusion handles GET /api/v1/admin/leaderboard/exclusions/:id
func (h *LeaderboardHandler) GetExclusion(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	excluded, err := h.leaderboard.IsExcluded(c.Context(), uint(userID))
	if err != nil {
		return response.InternalServerError(c, "Failed to check exclusion")
	}

	return response.Success(c, fiber.Map{
		"user_id":  userID,
		"excluded": excluded,
	})
}
