package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachLogBack/internal/models"
	"github.com/saeid-a/CoachLogBack/internal/services"
)

type rosterApplicationService interface {
	FetchStudents(ctx context.Context, actor models.Identity) ([]models.RosterStudent, error)
	AddStudent(ctx context.Context, actor models.Identity, targetEmail string) (*services.AddStudentResult, error)
}

type RosterHandler struct {
	service rosterApplicationService
}

func NewRosterHandler(service rosterApplicationService) *RosterHandler {
	return &RosterHandler{service: service}
}

type addStudentRequest struct {
	Email string `json:"email"`
}

func (h *RosterHandler) ListStudents(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return invalidToken(c)
	}

	roster, err := h.service.FetchStudents(c.Context(), identity)
	if err != nil {
		return mapRosterError(c, err)
	}

	activity := c.Query("activity", models.ActivityAll)
	filtered := services.FilterStudents(roster, c.Query("search"), activity)

	return c.JSON(fiber.Map{
		"students": services.Summarize(filtered),
		"total":    len(roster),
	})
}

func (h *RosterHandler) AddStudent(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return invalidToken(c)
	}

	var req addStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msg := validateAddStudentRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	result, err := h.service.AddStudent(c.Context(), identity, req.Email)
	if err != nil {
		return mapRosterError(c, err)
	}

	response := fiber.Map{"link": result.Link}
	if result.Students != nil {
		response["students"] = services.Summarize(result.Students)
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

func mapRosterError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSelfLink):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot add yourself as a student"})
	case errors.Is(err, services.ErrRoleMismatch):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "User is not a student"})
	case errors.Is(err, services.ErrDuplicateLink):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Student is already on your roster"})
	default:
		return mapServiceError(c, err, "Failed to process roster request")
	}
}
