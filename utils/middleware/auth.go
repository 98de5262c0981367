package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/reviseo/reviseo-api/model"
	"github.com/reviseo/reviseo-api/utils/auth"
	"github.com/reviseo/reviseo-api/utils/response"
	"gorm.io/gorm"
)

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	db         *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		db:         db,
	}
}

// validate parses the bearer token, checks the token version against the user
// row and returns the user. A nil error means the request is authenticated.
func (m *AuthMiddleware) validate(c *fiber.Ctx) (*auth.Claims, *model.User, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, nil, auth.ErrInvalidToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, nil, auth.ErrInvalidToken
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		return nil, nil, err
	}

	if claims.TokenType != "access" {
		return nil, nil, auth.ErrInvalidClaims
	}

	var user model.User
	if err := m.db.First(&user, claims.UserID).Error; err != nil {
		return nil, nil, err
	}

	if user.TokenVersion != claims.TokenVersion {
		return nil, nil, auth.ErrInvalidToken
	}

	return claims, &user, nil
}

func storeUser(c *fiber.Ctx, claims *auth.Claims, user *model.User) {
	c.Locals("user_id", claims.UserID)
	c.Locals("user_email", claims.Email)
	c.Locals("user_role", claims.Role)
	c.Locals("claims", claims)
	c.Locals("user", user)
}

// Required is middleware that requires a valid JWT token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, user, err := m.validate(c)
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Invalid or missing token")
		}

		storeUser(c, claims, user)
		return c.Next()
	}
}

// Optional is middleware that allows requests with or without a token
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, user, err := m.validate(c)
		if err == nil {
			storeUser(c, claims, user)
		}
		return c.Next()
	}
}

// RequireAdmin is middleware that requires a valid token with the admin role
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, user, err := m.validate(c)
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Invalid or missing token")
		}

		if claims.Role != "admin" {
			return response.Forbidden(c, "Admin access required")
		}

		storeUser(c, claims, user)
		return c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) (uint, bool) {
	userID := c.Locals("user_id")
	if userID == nil {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUser extracts full user object from context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	user := c.Locals("user")
	if user == nil {
		return nil, false
	}
	u, ok := user.(*model.User)
	return u, ok
}

// GetUserRole extracts user role from context
func GetUserRole(c *fiber.Ctx) (string, bool) {
	role := c.Locals("user_role")
	if role == nil {
		return "", false
	}
	r, ok := role.(string)
	return r, ok
}
