package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachLogBack/internal/models"
)

const noAccessQuery = "?error=no_access"

func isPublicPage(path string) bool {
	return path == "/" || path == "/login" || path == "/register"
}

// ResolveRoute returns where a request for path should be redirected, or ""
// when it may proceed. identity is nil for anonymous visitors.
func ResolveRoute(path string, identity *models.Identity) string {
	if identity == nil {
		if isPublicPage(path) {
			return ""
		}
		return "/login"
	}

	if path == "/login" || path == "/register" {
		return models.HomePath(identity.Role)
	}

	switch identity.Role {
	case models.RoleStudent:
		if strings.HasPrefix(path, "/coach") {
			return "/student" + noAccessQuery
		}
	case models.RoleCoach:
		if strings.HasPrefix(path, "/student") {
			return "/coach" + noAccessQuery
		}
	}
	return ""
}

// RouteGuard redirects page requests per ResolveRoute. An invalid or revoked
// token counts as signed out.
func RouteGuard(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var identity *models.Identity
		if tokenString, malformed := tokenFromRequest(c); !malformed && tokenString != "" {
			if resolved, err := auth.Authenticate(c.Context(), tokenString); err == nil {
				identity = resolved
				setIdentity(c, identity)
			}
		}

		if target := ResolveRoute(c.Path(), identity); target != "" {
			return c.Redirect(target, fiber.StatusFound)
		}
		return c.Next()
	}
}
