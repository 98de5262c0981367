package resource

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/reviseo/reviseo-api/services"
	"github.com/reviseo/reviseo-api/services/access"
	"github.com/reviseo/reviseo-api/utils/middleware"
	"github.com/reviseo/reviseo-api/utils/pdfvalidation"
	"github.com/reviseo/reviseo-api/utils/response"
	"github.com/reviseo/reviseo-api/utils/validation"
	"gorm.io/gorm"
)

// ResourceHandler exposes study resources, their files, likes and comments
type ResourceHandler struct {
	resources  *services.ResourceService
	engagement *services.EngagementService
	premium    *services.PremiumService
	validator  *validation.Validator
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(resources *services.ResourceService, engagement *services.EngagementService, premium *services.PremiumService) *ResourceHandler {
	return &ResourceHandler{
		resources:  resources,
		engagement: engagement,
		premium:    premium,
		validator:  validation.NewValidator(),
	}
}

// ResourceRequest represents a resource create/update payload
type ResourceRequest struct {
	Title       string   `json:"title" validate:"required,min=2,max=200"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	SubjectID   uint     `json:"subject_id" validate:"required,min=1"`
	IsPublic    bool     `json:"is_public"`
	Classes     []string `json:"classes" validate:"omitempty,dive,max=50"`
	Series      []string `json:"series" validate:"omitempty,dive,max=50"`
}

func (r ResourceRequest) toInput() services.NewResourceInput {
	return services.NewResourceInput{
		Title:       validation.SanitizeString(r.Title),
		Description: validation.SanitizeString(r.Description),
		SubjectID:   r.SubjectID,
		IsPublic:    r.IsPublic,
		Classes:     r.Classes,
		Series:      r.Series,
	}
}

// List handles GET /api/v1/resources. Anonymous callers see only public
// resources filtered by the class/series query params.
func (h *ResourceHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	opts := services.ListResourcesOptions{
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

	resources, total, err := h.resources.ListResources(c.Context(), opts)
	if err != nil {
		return response.InternalServerError(c, "Failed to list resources")
	}

	return response.Paginated(c, resources, response.CalculatePagination(page, limit, total))
}

// Get handles GET /api/v1/resources/:id
func (h *ResourceHandler) Get(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	resourceID, err := c.ParamsInt("id")
	if err != nil || resourceID < 1 {
		return response.BadRequest(c, "Invalid resource ID")
	}

	resource, err := h.resources.GetResource(c.Context(), uint(resourceID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Resource not found")
		}
		return response.InternalServerError(c, "Failed to load resource")
	}

	status := h.premium.Evaluate(c.Context(), user.ID)
	decision := access.DecideContent(user.ID, resource, status.IsPremium)
	if !decision.Allowed {
		switch decision.Reason {
		case access.DenyNotOwner:
			return response.NotOwner(c)
		default:
			return response.PremiumRequired(c)
		}
	}

	liked, _ := h.engagement.HasLiked(c.Context(), user.ID, resource.ID)

	return response.Success(c, fiber.Map{
		"resource": resource,
		"file_url": h.resources.FileURL(resource),
		"liked":    liked,
	})
}

// Create handles POST /api/v1/resources (student resources, always private)
func (h *ResourceHandler) Create(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req ResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	resource, err := h.resources.CreateUserResource(c.Context(), user, req.toInput())
	if err != nil {
		return response.InternalServerError(c, "Failed to create resource")
	}

	return response.Created(c, resource)
}

// CreateAdmin handles POST /api/v1/admin/resources
func (h *ResourceHandler) CreateAdmin(c *fiber.Ctx) error {
	var req ResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	resource, err := h.resources.CreateAdminResource(c.Context(), req.toInput())
	if err != nil {
		return response.InternalServerError(c, "Failed to create resource")
	}

	return response.Created(c, resource)
}

// Update handles PUT /api/v1/resources/:id
func (h *ResourceHandler) Update(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	resourceID, err := c.ParamsInt("id")
	if err != nil || resourceID < 1 {
		return response.BadRequest(c, "Invalid resource ID")
	}

	resource, err := h.resources.GetResource(c.Context(), uint(resourceID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Resource not found")
		}
		return response.InternalServerError(c, "Failed to load resource")
	}

	if !user.IsAdmin() && !resource.Owner.IsOwnedBy(user.ID) {
		return response.NotOwner(c)
	}

	var req ResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	input := req.toInput()
	if !user.IsAdmin() {
		input.IsPublic = false
		input.Classes = []string{user.Class}
		input.Series = []string{user.Series}
	}

	updated, err := h.resources.UpdateResource(c.Context(), uint(resourceID), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to update resource")
	}

	return response.Success(c, updated)
}

// Delete handles DELETE /api/v1/resources/:id
func (h *ResourceHandler) Delete(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	resourceID, err := c.ParamsInt("id")
	if err != nil || resourceID < 1 {
		return response.BadRequest(c, "Invalid resource ID")
	}

	resource, err := h.resources.GetResource(c.Context(), uint(resourceID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Resource not found")
		}
		return response.InternalServerError(c, "Failed to load resource")
	}

	if !user.IsAdmin() && !resource.Owner.IsOwnedBy(user.ID) {
		return response.NotOwner(c)
	}

	if err := h.resources.DeleteResource(c.Context(), uint(resourceID)); err != nil {
		return response.InternalServerError(c, "Failed to delete resource")
	}

	return response.NoContent(c)
}

// UploadFile handles POST /api/v1/resources/:id/file
func (h *ResourceHandler) UploadFile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	resourceID, err := c.ParamsInt("id")
	if err != nil || resourceID < 1 {
		return response.BadRequest(c, "Invalid resource ID")
	}

	resource, err := h.resources.GetResource(c.Context(), uint(resourceID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Resource not found")
		}
		return response.InternalServerError(c, "Failed to load resource")
	}

	if !user.IsAdmin() && !resource.Owner.IsOwnedBy(user.ID) {
		return response.NotOwner(c)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "Missing file upload")
	}

	validation, err := pdfvalidation.ValidatePDFFile(file, pdfvalidation.ResourceLimits)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	if !validation.Valid {
		return response.BadRequest(c, validation.Error)
	}

	updated, err := h.resources.AttachFile(c.Context(), uint(resourceID), file)
	if err != nil {
		return response.InternalServerError(c, "Failed to store file")
	}

	return response.Success(c, fiber.Map{
		"resource": updated,
		"file_url": h.resources.FileURL(updated),
	})
}
