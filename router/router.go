package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/reviseo/reviseo-api/config"
	"github.com/reviseo/reviseo-api/database"
	"github.com/reviseo/reviseo-api/handlers"
	auth_handlers "github.com/reviseo/reviseo-api/handlers/auth"
	connection_handlers "github.com/reviseo/reviseo-api/handlers/connection"
	course_handlers "github.com/reviseo/reviseo-api/handlers/course"
	deck_handlers "github.com/reviseo/reviseo-api/handlers/deck"
	leaderboard_handlers "github.com/reviseo/reviseo-api/handlers/leaderboard"
	notification_handlers "github.com/reviseo/reviseo-api/handlers/notification"
	premium_handlers "github.com/reviseo/reviseo-api/handlers/premium"
	resource_handlers "github.com/reviseo/reviseo-api/handlers/resource"
	subject_handlers "github.com/reviseo/reviseo-api/handlers/subject"
	"github.com/reviseo/reviseo-api/services"
	"github.com/reviseo/reviseo-api/services/storage"
	"github.com/reviseo/reviseo-api/utils/auth"
	"github.com/reviseo/reviseo-api/utils/cache"
	"github.com/reviseo/reviseo-api/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	getEnv, err := config.Get()
	if err != nil {
		log.Fatal("Failed to load configuration")
	}

	jwtSecret := getEnv.JWT_SECRET
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := getEnv.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "reviseo-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        jwtIssuer,
	})

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis backs the leaderboard cache and brute force protection
	redisURL := getEnv.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection and leaderboard caching will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	// Object storage is optional; without it resources work minus file uploads
	var spaces *storage.SpacesClient
	if getEnv.SPACES_BUCKET != "" {
		spaces, err = storage.NewSpacesClient(storage.SpacesConfig{
			AccessKey: getEnv.SPACES_ACCESS_KEY,
			SecretKey: getEnv.SPACES_SECRET_KEY,
			Bucket:    getEnv.SPACES_BUCKET,
			Region:    getEnv.SPACES_REGION,
			Endpoint:  getEnv.SPACES_ENDPOINT,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize object storage: %v. Resource file uploads will be disabled.", err)
		}
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Services
	premiumService := services.NewPremiumService(db)
	progressService := services.NewProgressService(db)
	pointsService := services.NewPointsService(db)
	deckService := services.NewDeckService(db, progressService)
	resourceService := services.NewResourceService(db, spaces)
	engagementService := services.NewEngagementService(db)
	leaderboardService := services.NewLeaderboardService(db, redisCache)
	notificationService := services.NewNotificationService(db)
	connectionService := services.NewConnectionService(db)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	premiumHandler := premium_handlers.NewPremiumHandler(db, premiumService)
	deckHandler := deck_handlers.NewDeckHandler(deckService, progressService, pointsService, premiumService)
	courseHandler := course_handlers.NewCourseHandler(db, premiumService, pointsService)
	resourceHandler := resource_handlers.NewResourceHandler(resourceService, engagementService, premiumService)
	subjectHandler := subject_handlers.NewSubjectHandler(db)
	leaderboardHandler := leaderboard_handlers.NewLeaderboardHandler(db, leaderboardService)
	notificationHandler := notification_handlers.NewNotificationHandler(notificationService)
	connectionHandler := connection_handlers.NewConnectionHandler(connectionService)

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)
	profileGroup.Put("/", authHandler.UpdateProfile)
	profileGroup.Get("/saved-courses", authHandler.ListSavedCourses)
	profileGroup.Post("/saved-courses/:id", authHandler.SaveCourse)
	profileGroup.Delete("/saved-courses/:id", authHandler.UnsaveCourse)
	profileGroup.Get("/saved-resources", authHandler.ListSavedResources)
	profileGroup.Post("/saved-resources/:id", authHandler.SaveResource)
	profileGroup.Delete("/saved-resources/:id", authHandler.UnsaveResource)

	// Premium status (protected)
	api.Get("/premium/status", authMiddleware.Required(), premiumHandler.Status)

	// Subjects (catalog is public, writes are admin only)
	subjects := api.Group("/subjects")
	subjects.Get("/", subjectHandler.List)

	// Courses (public listing, everything else gated per student)
	courses := api.Group("/courses")
	courses.Get("/", authMiddleware.Optional(), courseHandler.List)
	courses.Get("/:id", authMiddleware.Required(), courseHandler.Get)
	courses.Post("/:id/review", authMiddleware.Required(), courseHandler.Review)

	// Flashcard decks
	decks := api.Group("/decks")
	decks.Get("/", authMiddleware.Optional(), deckHandler.List)
	decks.Post("/", authMiddleware.Required(), deckHandler.Create)
	decks.Get("/:id", authMiddleware.Required(), deckHandler.Get)
	decks.Put("/:id", authMiddleware.Required(), deckHandler.Update)
	decks.Delete("/:id", authMiddleware.Required(), deckHandler.Delete)
	decks.Get("/:id/progress", authMiddleware.Required(), deckHandler.GetProgress)
	decks.Put("/:id/cards/:cardId/progress", authMiddleware.Required(), deckHandler.ReviewCard)

	// Resources
	resources := api.Group("/resources")
	resources.Get("/", authMiddleware.Optional(), resourceHandler.List)
	resources.Post("/", authMiddleware.Required(), resourceHandler.Create)
	resources.Get("/:id", authMiddleware.Required(), resourceHandler.Get)
	resources.Put("/:id", authMiddleware.Required(), resourceHandler.Update)
	resources.Delete("/:id", authMiddleware.Required(), resourceHandler.Delete)
	resources.Post("/:id/file", authMiddleware.Required(), resourceHandler.UploadFile)
	resources.Post("/:id/like", authMiddleware.Required(), resourceHandler.ToggleLike)
	resources.Get("/:id/comments", authMiddleware.Required(), resourceHandler.ListComments)
	resources.Post("/:id/comments", authMiddleware.Required(), resourceHandler.AddComment)

	// Leaderboard (public)
	api.Get("/leaderboard", leaderboardHandler.Top)

	// Notifications (protected)
	notifications := api.Group("/notifications", authMiddleware.Required())
	notifications.Get("/", notificationHandler.List)
	notifications.Post("/:id/read", notificationHandler.MarkRead)

	// Connections (protected)
	connections := api.Group("/connections", authMiddleware.Required())
	connections.Get("/", connectionHandler.List)
	connections.Post("/", connectionHandler.SendRequest)
	connections.Post("/:id/accept", connectionHandler.Accept)
	connections.Delete("/:id", connectionHandler.Decline)

	// Admin surface
	admin := api.Group("/admin", authMiddleware.RequireAdmin())
	admin.Post("/premium/activate", premiumHandler.Activate)
	admin.Post("/premium/deactivate", premiumHandler.Deactivate)
	admin.Get("/premium/status/:id", premiumHandler.StatusFor)
	admin.Post("/subjects", subjectHandler.Create)
	admin.Put("/subjects/:id", subjectHandler.Update)
	admin.Delete("/subjects/:id", subjectHandler.Delete)
	admin.Post("/courses", courseHandler.Create)
	admin.Put("/courses/:id", courseHandler.Update)
	admin.Delete("/courses/:id", courseHandler.Delete)
	admin.Post("/decks", deckHandler.CreateAdmin)
	admin.Post("/resources", resourceHandler.CreateAdmin)
	admin.Post("/notifications", notificationHandler.Broadcast)
	admin.Put("/leaderboard/exclusions", leaderboardHandler.SetExclusion)
	admin.Get("/leaderboard/exclusions/:id", leaderboardHandler.GetExclusion)
}
