package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachLogBack/internal/models"
)

// Page answers for the guarded app routes. The frontend renders the view;
// the server only decides who may land where.
func Page(c *fiber.Ctx) error {
	response := fiber.Map{"page": c.Path()}
	if identity, err := currentIdentity(c); err == nil {
		response["user_id"] = identity.UserID
		response["role"] = identity.Role
		response["home"] = models.HomePath(identity.Role)
	}
	if reason := c.Query("error"); reason != "" {
		response["error"] = reason
	}
	return c.JSON(response)
}
