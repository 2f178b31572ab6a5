package handlers

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachLogBack/internal/models"
	"github.com/saeid-a/CoachLogBack/internal/services"
)

const maxAvatarSizeBytes = 5 * 1024 * 1024

var avatarContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

type profileApplicationService interface {
	Get(ctx context.Context, actor models.Identity) (*models.Profile, error)
	UpdateName(ctx context.Context, actor models.Identity, fullName string) (*models.Profile, error)
	UploadAvatar(ctx context.Context, actor models.Identity, content io.Reader, contentType string) (*models.Profile, error)
}

type ProfileHandler struct {
	service profileApplicationService
}

func NewProfileHandler(service profileApplicationService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type updateProfileRequest struct {
	FullName string `json:"full_name"`
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return invalidToken(c)
	}

	profile, err := h.service.Get(c.Context(), identity)
	if err != nil {
		return mapProfileError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return invalidToken(c)
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msg := validateUpdateProfileRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	profile, err := h.service.UpdateName(c.Context(), identity, req.FullName)
	if err != nil {
		return mapProfileError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return invalidToken(c)
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
	}
	if fileHeader.Size <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is empty"})
	}
	if fileHeader.Size > maxAvatarSizeBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file exceeds 5MB limit"})
	}

	contentType, ok := avatarContentTypes[strings.ToLower(filepath.Ext(fileHeader.Filename))]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar must be a jpg, jpeg, png, or webp file"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to open avatar file"})
	}
	defer file.Close()

	profile, err := h.service.UploadAvatar(c.Context(), identity, file, contentType)
	if err != nil {
		return mapProfileError(c, err)
	}

	return c.JSON(fiber.Map{
		"avatar_url": profile.AvatarURL,
		"profile":    profile,
	})
}

func mapProfileError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrStorageNotConfigured):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage service is not configured"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	case errors.Is(err, services.ErrStorage):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	default:
		return mapServiceError(c, err, "Failed to update profile")
	}
}
