package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/saeid-a/CoachLogBack/internal/models"
)

type logApplicationService interface {
	FetchHistory(ctx context.Context, actor models.Identity, userID uuid.UUID) ([]models.DailyLog, error)
	SaveLog(ctx context.Context, actor models.Identity, userID uuid.UUID, entry models.LogEntry) (*models.DailyLog, error)
	StudentHistory(ctx context.Context, actor models.Identity, studentID uuid.UUID) ([]models.DailyLog, error)
}

type LogHandler struct {
	service logApplicationService
}

func NewLogHandler(service logApplicationService) *LogHandler {
	return &LogHandler{service: service}
}

func (h *LogHandler) ListLogs(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return invalidToken(c)
	}

	logs, err := h.service.FetchHistory(c.Context(), identity, identity.UserID)
	if err != nil {
		return mapServiceError(c, err, "Failed to fetch logs")
	}
	return c.JSON(fiber.Map{"logs": logs})
}

func (h *LogHandler) SaveLog(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return invalidToken(c)
	}

	var entry models.LogEntry
	if err := c.BodyParser(&entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	saved, err := h.service.SaveLog(c.Context(), identity, identity.UserID, entry)
	if err != nil {
		return mapServiceError(c, err, "Failed to save log")
	}
	return c.JSON(fiber.Map{"log": saved})
}

func (h *LogHandler) StudentLogs(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return invalidToken(c)
	}

	studentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student id"})
	}

	logs, err := h.service.StudentHistory(c.Context(), identity, studentID)
	if err != nil {
		return mapServiceError(c, err, "Failed to fetch logs")
	}
	if !pageRequested(c) {
		return c.JSON(fiber.Map{"logs": logs})
	}

	page, limit := parsePageParams(c)
	return c.JSON(fiber.Map{
		"logs":       paginate(logs, page, limit),
		"pagination": buildPaginationMeta(page, limit, len(logs)),
	})
}
