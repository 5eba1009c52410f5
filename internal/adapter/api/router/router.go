package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
	"tradepost/internal/adapter/api/middleware"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Listing    *handler.ListingHandler
	Discussion *handler.DiscussionHandler
	WebSocket  *handler.WebSocketHandler
}

func Setup(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	SetupHealthRouter(e)
	SetupAuthRouter(e, h.Auth)
	SetupUserRouter(e, h.User, authMiddleware)
	SetupListingRouter(e, h.Listing, authMiddleware)
	SetupDiscussionRouter(e, h.Discussion, authMiddleware)
	SetupWebSocketRouter(e, h.WebSocket)
}
