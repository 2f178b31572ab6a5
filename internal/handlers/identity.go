package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/saeid-a/CoachLogBack/internal/models"
)

var errMissingIdentity = errors.New("missing identity")

// currentIdentity reads the identity AuthRequired stored on the request.
func currentIdentity(c *fiber.Ctx) (models.Identity, error) {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok || userIDStr == "" {
		return models.Identity{}, errMissingIdentity
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return models.Identity{}, err
	}
	role, _ := c.Locals("role").(string)
	email, _ := c.Locals("email").(string)
	tokenID, _ := c.Locals("token_id").(string)
	expiresAt, _ := c.Locals("token_expires_at").(time.Time)

	return models.Identity{
		UserID:    userID,
		Role:      role,
		Email:     email,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}, nil
}

func invalidToken(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
}
