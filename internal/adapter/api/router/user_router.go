package router

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/adapter/api/handler"
	"unimarket/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("/me", userHandler.GetMe)
	users.PATCH("/me", userHandler.UpdateProfile)
	users.POST("/me/avatar", userHandler.UploadAvatar)
	users.GET("/:id", userHandler.GetProfile)
}
