package router

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/adapter/api/handler"
	"unimarket/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)

	chats.POST("", chatHandler.ContactSeller)
	chats.GET("", chatHandler.ListThreads)
	chats.GET("/:id", chatHandler.GetThread)
	chats.GET("/:id/messages", chatHandler.ListMessages)
	chats.POST("/:id/messages", chatHandler.SendMessage)
}

// SetupWebSocketRouter wires the live streams. The auth middleware accepts
// the token as a query parameter here since browsers cannot set headers on
// WebSocket upgrades.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler, authMiddleware *middleware.AuthMiddleware) {
	ws := e.Group("/ws")
	ws.Use(authMiddleware.Authenticate)

	ws.GET("/chats", wsHandler.StreamThreads)
	ws.GET("/chats/:id", wsHandler.StreamMessages)
}
