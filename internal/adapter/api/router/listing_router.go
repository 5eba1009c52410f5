package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
	"tradepost/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, listingHandler *handler.ListingHandler, authMiddleware *middleware.AuthMiddleware) {
	group := e.Group("/v1/listings")
	group.Use(authMiddleware.Authenticate)

	group.POST("", listingHandler.Create)
	group.GET("", listingHandler.ListMine)
	group.GET("/:id", listingHandler.GetByID)
	group.DELETE("/:id", listingHandler.Delete)
}
