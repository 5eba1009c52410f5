package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
	"tradepost/internal/adapter/api/middleware"
)

// SetupDiscussionRouter wires the discussion lifecycle endpoints. All of
// them require authentication.
func SetupDiscussionRouter(e *echo.Echo, discussionHandler *handler.DiscussionHandler, authMiddleware *middleware.AuthMiddleware) {
	group := e.Group("/v1/discussions")
	group.Use(authMiddleware.Authenticate)

	group.POST("", discussionHandler.Create)            // POST /v1/discussions - open a discussion
	group.GET("", discussionHandler.List)               // GET /v1/discussions - caller's linked discussions
	group.GET("/:id", discussionHandler.GetByID)        // GET /v1/discussions/:id
	group.POST("/:id/messages", discussionHandler.AppendMessage) // POST /v1/discussions/:id/messages
	group.PUT("/:id/seen", discussionHandler.MarkSeen)  // PUT /v1/discussions/:id/seen - no body
	group.DELETE("/:id", discussionHandler.Unlink)      // DELETE /v1/discussions/:id - unlink (soft delete)
}
