package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/middleware"
	"tradepost/internal/infrastructure/realtime"
	"tradepost/pkg/errors"
)

type WebSocketHandler struct {
	hub            *realtime.Hub
	authMiddleware *middleware.AuthMiddleware
	sendBuffer     int
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // restrict in production deployments
	},
}

func NewWebSocketHandler(hub *realtime.Hub, authMiddleware *middleware.AuthMiddleware, sendBuffer int) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		authMiddleware: authMiddleware,
		sendBuffer:     sendBuffer,
	}
}

// HandleWebSocket upgrades the connection and starts the client pumps. The
// token arrives as a query parameter because browsers cannot set headers on
// websocket requests.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return errors.Unauthorized("Authentication required", nil)
	}

	userID, err := h.authMiddleware.GetUIDFromToken(c.Request().Context(), token)
	if err != nil {
		return errors.Unauthorized("Invalid or expired token", err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := realtime.NewClient(userID, conn, h.sendBuffer)

	h.hub.Register <- client

	go client.ReadPump(h.hub)
	go client.WritePump()

	return nil
}
