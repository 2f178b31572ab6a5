package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachLogBack/internal/middleware"
	"github.com/saeid-a/CoachLogBack/internal/models"
	"github.com/saeid-a/CoachLogBack/internal/services"
)

type authApplicationService interface {
	SignUp(ctx context.Context, input services.SignUpInput) (*services.AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*services.AuthResult, error)
	SignOut(ctx context.Context, identity models.Identity) error
	CurrentSession(ctx context.Context, identity models.Identity) (*models.Profile, error)
}

type AuthHandler struct {
	service      authApplicationService
	secureCookie bool
}

func NewAuthHandler(service authApplicationService, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: service, secureCookie: secureCookie}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msg := validateRegisterRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	result, err := h.service.SignUp(c.Context(), services.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		return mapAuthError(c, err)
	}

	h.setSessionCookie(c, result.Token, result.ExpiresAt)
	return c.Status(fiber.StatusCreated).JSON(authResponse(result))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msg := validateLoginRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	result, err := h.service.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		return mapAuthError(c, err)
	}

	h.setSessionCookie(c, result.Token, result.ExpiresAt)
	return c.JSON(authResponse(result))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return invalidToken(c)
	}

	if err := h.service.SignOut(c.Context(), identity); err != nil {
		return mapAuthError(c, err)
	}

	h.setSessionCookie(c, "", time.Unix(0, 0))
	return c.SendStatus(fiber.StatusNoContent)
}

// Session returns the identity and profile behind the current token so a
// client can restore its state after a reload.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return invalidToken(c)
	}

	profile, err := h.service.CurrentSession(c.Context(), identity)
	if err != nil {
		return mapAuthError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":    identity.UserID,
			"email": profile.Email,
			"role":  profile.Role,
		},
		"profile":    profile,
		"home":       models.HomePath(profile.Role),
		"expires_at": identity.ExpiresAt,
	})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func authResponse(result *services.AuthResult) fiber.Map {
	return fiber.Map{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"user": fiber.Map{
			"id":    result.Profile.ID,
			"email": result.Profile.Email,
			"role":  result.Profile.Role,
		},
		"profile": result.Profile,
		"home":    models.HomePath(result.Profile.Role),
	}
}

func mapAuthError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	default:
		return mapServiceError(c, err, "Failed to process authentication request")
	}
}
