package middleware

import (
	"strings"

	"github.com/alsetso/alsetmaps-backend/internal/config"
	"github.com/alsetso/alsetmaps-backend/internal/database"
	"github.com/alsetso/alsetmaps-backend/internal/models"
	"github.com/alsetso/alsetmaps-backend/pkg/auth"
	"github.com/gofiber/fiber/v2"
)

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthRequired validates the Bearer access token and stores the
// authenticated user ID in c.Locals("userID").
func AuthRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return unauthorized(c, "Missing or malformed Authorization header")
		}

		claims, err := auth.ValidateAccessToken(token, cfg.JWTSecretKey)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals("userID", claims.UserID)
		return c.Next()
	}
}

// OptionalAuth sets c.Locals("userID") when a valid token is present
// and lets the request through either way.
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Next()
		}

		claims, err := auth.ValidateAccessToken(token, cfg.JWTSecretKey)
		if err != nil {
			return c.Next()
		}

		c.Locals("userID", claims.UserID)
		return c.Next()
	}
}

// StaffRequired validates the token and additionally requires the
// user's is_staff flag.
func StaffRequired(cfg *config.Config, db *database.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return unauthorized(c, "Missing or malformed Authorization header")
		}

		claims, err := auth.ValidateAccessToken(token, cfg.JWTSecretKey)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		var user models.User
		if err := db.WithContext(c.UserContext()).First(&user, claims.UserID).Error; err != nil {
			return unauthorized(c, "Unknown user")
		}
		if !user.IsStaff {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error": fiber.Map{
					"code":    "FORBIDDEN",
					"message": "Staff access required",
				},
			})
		}

		c.Locals("userID", user.ID)
		return c.Next()
	}
}
