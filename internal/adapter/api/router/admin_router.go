package router

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/adapter/api/handler"
	"unimarket/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	adminHandler := handler.GetAdminHandler()

	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("/users", adminHandler.ListUsers)
	admin.PATCH("/users/:id/admin", adminHandler.SetAdmin)
	admin.GET("/listings", adminHandler.ListListings)
	admin.PATCH("/listings/:id/status", adminHandler.SetListingStatus)
	admin.DELETE("/listings/:id", adminHandler.DeleteListing)
	admin.GET("/stats", adminHandler.Stats)
}
