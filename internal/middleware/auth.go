package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachLogBack/internal/models"
)

const SessionCookieName = "access_token"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
}

// AuthRequired accepts a Bearer token or the session cookie and stores the
// resolved identity in the request locals.
func AuthRequired(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, malformed := tokenFromRequest(c)
		if malformed {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		identity, err := auth.Authenticate(c.Context(), tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		setIdentity(c, identity)
		return c.Next()
	}
}

func setIdentity(c *fiber.Ctx, identity *models.Identity) {
	c.Locals("user_id", identity.UserID.String())
	c.Locals("role", identity.Role)
	c.Locals("email", identity.Email)
	c.Locals("token_id", identity.TokenID)
	c.Locals("token_expires_at", identity.ExpiresAt)
}

func tokenFromRequest(c *fiber.Ctx) (token string, malformed bool) {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", true
		}
		return parts[1], false
	}
	return strings.TrimSpace(c.Cookies(SessionCookieName)), false
}
