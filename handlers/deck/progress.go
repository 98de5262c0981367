package deck

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/reviseo/reviseo-api/model"
	"github.com/reviseo/reviseo-api/services"
	"github.com/reviseo/reviseo-api/services/access"
	"github.com/reviseo/reviseo-api/utils/middleware"
	"github.com/reviseo/reviseo-api/utils/response"
	"gorm.io/gorm"
)

// GetProgress handles GET /api/v1/decks/:id/progress
func (h *DeckHandler) GetProgress(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	deckID, err := c.ParamsInt("id")
	if err != nil || deckID < 1 {
		return response.BadRequest(c, "Invalid deck ID")
	}

	progress, err := h.progress.GetProgress(c.Context(), user.ID, uint(deckID))
	if err != nil {
		return response.InternalServerError(c, "Failed to load progress")
	}

	return response.Success(c, fiber.Map{
		"deck_id":  deckID,
		"progress": progress,
	})
}

// ReviewCardRequest represents a card review outcome
type ReviewCardRequest struct {
	Status string `json:"status" validate:"required,oneof=learning mastered"`
}

// ReviewCard handles PUT /api/v1/decks/:id/cards/:cardId/progress.
// Recording a review also credits the flashcard review points.
func (h *DeckHandler) ReviewCard(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	deckID, err := c.ParamsInt("id")
	if err != nil || deckID < 1 {
		return response.BadRequest(c, "Invalid deck ID")
	}
	cardID, err := c.ParamsInt("cardId")
	if err != nil || cardID < 1 {
		return response.BadRequest(c, "Invalid card ID")
	}

	var req ReviewCardRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	deck, err := h.decks.GetDeck(c.Context(), uint(deckID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Deck not found")
		}
		return response.InternalServerError(c, "Failed to load deck")
	}

	status := h.premium.Evaluate(c.Context(), user.ID)
	decision := access.DecideContent(user.ID, deck, status.IsPremium)
	if !decision.Allowed {
		switch decision.Reason {
		case access.DenyNotOwner:
			return response.NotOwner(c)
		default:
			return response.PremiumRequired(c)
		}
	}

	found := false
	for _, card := range deck.Cards {
		if card.ID == uint(cardID) {
			found = true
			break
		}
	}
	if !found {
		return response.NotFound(c, "Card not found in deck")
	}

	err = h.progress.SetCardStatus(c.Context(), user.ID, uint(deckID), uint(cardID), model.CardStatus(req.Status))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCardStatus) {
			return response.BadRequest(c, "Invalid card status")
		}
		return response.InternalServerError(c, "Failed to save progress")
	}

	// Points are best effort: a failed credit never undoes the saved review.
	if err := h.points.AddPoints(c.Context(), user.ID, services.ActivityFlashcardReview); err != nil {
		log.Printf("Failed to credit review points for user %d: %v", user.ID, err)
	}

	return response.SuccessWithMessage(c, "Progress saved", fiber.Map{
		"card_id": cardID,
		"status":  req.Status,
	})
}
