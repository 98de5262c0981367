package course

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/reviseo/reviseo-api/model"
	"github.com/reviseo/reviseo-api/services"
	"github.com/reviseo/reviseo-api/services/access"
	"github.com/reviseo/reviseo-api/utils/middleware"
	"github.com/reviseo/reviseo-api/utils/response"
	"github.com/reviseo/reviseo-api/utils/validation"
	"gorm.io/gorm"
)

// CourseHandler exposes curriculum courses. Courses are platform content:
// only admins write them, students read through the access gate.
type CourseHandler struct {
	db        *gorm.DB
	premium   *services.PremiumService
	points    *services.PointsService
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(db *gorm.DB, premium *services.PremiumService, points *services.PointsService) *CourseHandler {
	return &CourseHandler{
		db:        db,
		premium:   premium,
		points:    points,
		validator: validation.NewValidator(),
	}
}

// CourseRequest represents a course create/update payload
type CourseRequest struct {
	Title     string   `json:"title" validate:"required,min=2,max=200"`
	Content   string   `json:"content" validate:"required,min=1"`
	SubjectID uint     `json:"subject_id" validate:"required,min=1"`
	IsPublic  bool     `json:"is_public"`
	Classes   []string `json:"classes" validate:"omitempty,dive,max=50"`
	Series    []string `json:"series" validate:"omitempty,dive,max=50"`
}

// List handles GET /api/v1/courses. Only public courses appear in listings;
// logged-in students are filtered to their own class/series, anonymous
// callers can filter via query params.
func (h *CourseHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	class := c.Query("class")
	series := c.Query("series")
	if user, ok := middleware.GetUser(c); ok {
		class = user.Class
		series = user.Series
	}

	query := h.db.Model(&model.Course{}).Where("is_public = ?", true)
	if subjectID := c.QueryInt("subject_id", 0); subjectID > 0 {
		query = query.Where("subject_id = ?", subjectID)
	}
	if class != "" {
		query = query.Where("? = ANY(classes)", class)
	}
	if series != "" {
		query = query.Where("? = ANY(series)", series)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count courses")
	}

	var courses []model.Course
	err := query.Preload("Subject").
		Select("id, created_at, updated_at, title, subject_id, is_public, classes, series, owner_kind, owner_user_id").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&courses).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to list courses")
	}

	return response.Paginated(c, courses, response.CalculatePagination(page, limit, total))
}

// Get handles GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return response.BadRequest(c, "Invalid course ID")
	}

	var course model.Course
	if err := h.db.Preload("Subject").First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to load course")
	}

	status := h.premium.Evaluate(c.Context(), user.ID)
	decision := access.DecideContent(user.ID, &course, status.IsPremium)
	if !decision.Allowed {
		switch decision.Reason {
		case access.DenyNotOwner:
			return response.NotOwner(c)
		default:
			return response.PremiumRequired(c)
		}
	}

	return response.Success(c, course)
}

// Review handles POST /api/v1/courses/:id/review.
// Completing a chapter review credits the chapter review points.
func (h *CourseHandler) Review(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return response.BadRequest(c, "Invalid course ID")
	}

	var course model.Course
	if err := h.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to load course")
	}

	status := h.premium.Evaluate(c.Context(), user.ID)
	decision := access.DecideContent(user.ID, &course, status.IsPremium)
	if !decision.Allowed {
		switch decision.Reason {
		case access.DenyNotOwner:
			return response.NotOwner(c)
		default:
			return response.PremiumRequired(c)
		}
	}

	if err := h.points.AddPoints(c.Context(), user.ID, services.ActivityChapterReview); err != nil {
		log.Printf("Failed to credit chapter review points for user %d: %v", user.ID, err)
		return response.InternalServerError(c, "Failed to record review")
	}

	points, _ := services.PointsFor(services.ActivityChapterReview)
	return response.SuccessWithMessage(c, "Review recorded", fiber.Map{
		"course_id":      courseID,
		"points_awarded": points,
	})
}

// Create handles POST /api/v1/admin/courses
func (h *CourseHandler) Create(c *fiber.Ctx) error {
	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	course := model.Course{
		Title:     validation.SanitizeString(req.Title),
		Content:   req.Content,
		SubjectID: req.SubjectID,
		IsPublic:  req.IsPublic,
		Classes:   req.Classes,
		Series:    req.Series,
		Owner:     model.SystemOwner(),
	}
	if err := h.db.Create(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to create course")
	}

	return response.Created(c, course)
}

// Update handles PUT /api/v1/admin/courses/:id
func (h *CourseHandler) Update(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return response.BadRequest(c, "Invalid course ID")
	}

	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var course model.Course
	if err := h.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to load course")
	}

	course.Title = validation.SanitizeString(req.Title)
	course.Content = req.Content
	course.SubjectID = req.SubjectID
	course.IsPublic = req.IsPublic
	course.Classes = req.Classes
	course.Series = req.Series
	if err := h.db.Save(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to update course")
	}

	return response.Success(c, course)
}

// Delete handles DELETE /api/v1/admin/courses/:id
func (h *CourseHandler) Delete(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return response.BadRequest(c, "Invalid course ID")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.SavedCourse{}, "course_id = ?", courseID).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, courseID).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete course")
	}

	return response.NoContent(c)
}
