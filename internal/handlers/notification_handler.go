package handlers

import (
	"context"
	"errors"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/saeid-a/CoachLogBack/internal/models"
	notifyws "github.com/saeid-a/CoachLogBack/internal/websocket"
)

type tokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
}

// NotificationHandler upgrades authenticated requests to a push-only socket.
type NotificationHandler struct {
	hub  *notifyws.Hub
	auth tokenAuthenticator
}

func NewNotificationHandler(hub *notifyws.Hub, auth tokenAuthenticator) *NotificationHandler {
	return &NotificationHandler{hub: hub, auth: auth}
}

func (h *NotificationHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	token, err := wsToken(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}
	identity, err := h.auth.Authenticate(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("user_id", identity.UserID.String())
	c.Locals("role", identity.Role)
	return c.Next()
}

func (h *NotificationHandler) HandleWebSocket(conn *websocket.Conn) {
	userIDStr, _ := conn.Locals("user_id").(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		_ = conn.Close()
		return
	}
	client := notifyws.NewClient(h.hub, conn, userID)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump()
}

func wsToken(c *fiber.Ctx) (string, error) {
	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
	}

	if tokenString == "" {
		return "", errors.New("missing token")
	}
	return tokenString, nil
}
