package deck

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/reviseo/reviseo-api/model"
	"github.com/reviseo/reviseo-api/services"
	"github.com/reviseo/reviseo-api/services/access"
	"github.com/reviseo/reviseo-api/utils/middleware"
	"github.com/reviseo/reviseo-api/utils/response"
	"github.com/reviseo/reviseo-api/utils/validation"
	"gorm.io/gorm"
)

// DeckHandler exposes flashcard decks and card progress
type DeckHandler struct {
	decks     *services.DeckService
	progress  *services.ProgressService
	points    *services.PointsService
	premium   *services.PremiumService
	validator *validation.Validator
}

// NewDeckHandler creates a new deck handler
func NewDeckHandler(decks *services.DeckService, progress *services.ProgressService, points *services.PointsService, premium *services.PremiumService) *DeckHandler {
	return &DeckHandler{
		decks:     decks,
		progress:  progress,
		points:    points,
		premium:   premium,
		validator: validation.NewValidator(),
	}
}

// CardRequest represents one card in a deck payload
type CardRequest struct {
	Question string `json:"question" validate:"required,min=1,max=2000"`
	Answer   string `json:"answer" validate:"required,min=1,max=2000"`
}

// DeckRequest represents a deck create/update payload
type DeckRequest struct {
	Title     string        `json:"title" validate:"required,min=2,max=200"`
	SubjectID uint          `json:"subject_id" validate:"required,min=1"`
	IsPublic  bool          `json:"is_public"`
	Classes   []string      `json:"classes" validate:"omitempty,dive,max=50"`
	Series    []string      `json:"series" validate:"omitempty,dive,max=50"`
	Cards     []CardRequest `json:"cards" validate:"required,min=1,dive"`
}

func (r DeckRequest) toInput() services.NewDeckInput {
	cards := make([]model.Card, len(r.Cards))
	for i, c := range r.Cards {
		cards[i] = model.Card{
			Question: validation.SanitizeString(c.Question),
			Answer:   validation.SanitizeString(c.Answer),
		}
	}
	return services.NewDeckInput{
		Title:     validation.SanitizeString(r.Title),
		SubjectID: r.SubjectID,
		IsPublic:  r.IsPublic,
		Classes:   r.Classes,
		Series:    r.Series,
		Cards:     cards,
	}
}

// List handles GET /api/v1/decks. Anonymous callers see only public decks,
// filtered by the class/series query params; logged-in students get their
// own class/series plus their private decks.
func (h *DeckHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	opts := services.ListDecksOptions{
		SubjectID: uint(c.QueryInt("subject_id", 0)),
		Class:     c.Query("class"),
		Series:    c.Query("series"),
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}
	if user, ok := middleware.GetUser(c); ok {
		opts.Class = user.Class
		opts.Series = user.Series
		opts.UserID = user.ID
	}

	decks, total, err := h.decks.ListDecks(c.Context(), opts)
	if err != nil {
		return response.InternalServerError(c, "Failed to list decks")
	}

	return response.Paginated(c, decks, response.CalculatePagination(page, limit, total))
}

// Get handles GET /api/v1/decks/:id
func (h *DeckHandler) Get(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	deckID, err := c.ParamsInt("id")
	if err != nil || deckID < 1 {
		return response.BadRequest(c, "Invalid deck ID")
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

	return response.Success(c, deck)
}

// Create handles POST /api/v1/decks (student decks, always private)
func (h *DeckHandler) Create(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req DeckRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	deck, err := h.decks.CreateUserDeck(c.Context(), user, req.toInput())
	if err != nil {
		if errors.Is(err, services.ErrDeckNeedsCards) {
			return response.BadRequest(c, "A deck must contain at least one card")
		}
		return response.InternalServerError(c, "Failed to create deck")
	}

	return response.Created(c, deck)
}

// CreateAdmin handles POST /api/v1/admin/decks (platform decks)
func (h *DeckHandler) CreateAdmin(c *fiber.Ctx) error {
	var req DeckRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	deck, err := h.decks.CreateAdminDeck(c.Context(), req.toInput())
	if err != nil {
		if errors.Is(err, services.ErrDeckNeedsCards) {
			return response.BadRequest(c, "A deck must contain at least one card")
		}
		return response.InternalServerError(c, "Failed to create deck")
	}

	return response.Created(c, deck)
}

// Update handles PUT /api/v1/decks/:id
func (h *DeckHandler) Update(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	deckID, err := c.ParamsInt("id")
	if err != nil || deckID < 1 {
		return response.BadRequest(c, "Invalid deck ID")
	}

	deck, err := h.decks.GetDeck(c.Context(), uint(deckID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Deck not found")
		}
		return response.InternalServerError(c, "Failed to load deck")
	}

	if !user.IsAdmin() && !deck.Owner.IsOwnedBy(user.ID) {
		return response.NotOwner(c)
	}

	var req DeckRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	input := req.toInput()
	if !user.IsAdmin() {
		// Student decks keep their private, self-targeted shape on update too.
		input.IsPublic = false
		input.Classes = []string{user.Class}
		input.Series = []string{user.Series}
	}

	updated, err := h.decks.UpdateDeck(c.Context(), uint(deckID), input)
	if err != nil {
		if errors.Is(err, services.ErrDeckNeedsCards) {
			return response.BadRequest(c, "A deck must contain at least one card")
		}
		return response.InternalServerError(c, "Failed to update deck")
	}

	return response.Success(c, updated)
}

// Delete handles DELETE /api/v1/decks/:id
func (h *DeckHandler) Delete(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	deckID, err := c.ParamsInt("id")
	if err != nil || deckID < 1 {
		return response.BadRequest(c, "Invalid deck ID")
	}

	deck, err := h.decks.GetDeck(c.Context(), uint(deckID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Deck not found")
		}
		return response.InternalServerError(c, "Failed to load deck")
	}

	if !user.IsAdmin() && !deck.Owner.IsOwnedBy(user.ID) {
		return response.NotOwner(c)
	}

	if err := h.decks.DeleteDeck(c.Context(), uint(deckID)); err != nil {
		return response.InternalServerError(c, "Failed to delete deck")
	}

	return response.NoContent(c)
}
