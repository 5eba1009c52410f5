package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
	"tradepost/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler, authMiddleware *middleware.AuthMiddleware) {
	group := e.Group("/v1/users")
	group.Use(authMiddleware.Authenticate)

	group.GET("/me", userHandler.GetMe)
	group.PATCH("/me", userHandler.UpdateMe)
	group.DELETE("/me", userHandler.DeleteMe)
}
