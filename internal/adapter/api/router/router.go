package router

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupAuthRouter(e)
	SetupUserRouter(e, authMiddleware)
	SetupListingRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupFileRouter(e, authMiddleware)
	SetupAdminRouter(e, authMiddleware, adminMiddleware)
	SetupHealthRouter(e)
}
