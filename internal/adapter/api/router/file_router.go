package router

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/adapter/api/handler"
	"unimarket/internal/adapter/api/middleware"
)

func SetupFileRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	fileHandler := handler.GetFileHandler()

	files := e.Group("/v1/files")
	files.Use(authMiddleware.Authenticate)

	files.POST("", fileHandler.UploadImage)
}
