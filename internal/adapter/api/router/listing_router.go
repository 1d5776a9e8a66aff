package router

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/adapter/api/handler"
	"unimarket/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	listingHandler := handler.GetListingHandler()

	// Browsing is public.
	e.GET("/v1/listings", listingHandler.List)
	e.GET("/v1/listings/:id", listingHandler.GetByID)

	protected := e.Group("/v1/listings")
	protected.Use(authMiddleware.Authenticate)

	protected.POST("", listingHandler.Create)
	protected.GET("/mine", listingHandler.ListMine)
	protected.PUT("/:id", listingHandler.Update)
	protected.PATCH("/:id/status", listingHandler.UpdateStatus)
	protected.DELETE("/:id", listingHandler.Delete)
}
