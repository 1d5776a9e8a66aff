package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"unimarket/internal/adapter/api/middleware"
	"unimarket/internal/infrastructure/websocket"
	"unimarket/internal/usecase"
	"unimarket/pkg/errors"
	"unimarket/pkg/logger"
	"unimarket/pkg/response"
)

// WebSocketHandler streams live chat snapshots. Each connection is backed by
// one store subscription; closing the socket cancels the subscription.
//
// The handlers block until the client disconnects: the subscription is bound
// to the request context, which net/http cancels as soon as the handler
// returns, hijacked connection or not.
type WebSocketHandler struct {
	chatUseCase *usecase.ChatUseCase
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // restrict in production
	},
}

func NewWebSocketHandler(chatUseCase *usecase.ChatUseCase) *WebSocketHandler {
	return &WebSocketHandler{
		chatUseCase: chatUseCase,
	}
}

// StreamMessages pushes the thread's full ordered message history on every
// change. Participant authorization happens before the upgrade so denial is
// a plain HTTP error.
func (h *WebSocketHandler) StreamMessages(c echo.Context) error {
	authUser := middleware.AuthUserFromContext(c)
	threadID := c.Param("id")

	sub, err := h.chatUseCase.SubscribeMessages(c.Request().Context(), authUser, threadID)
	if err != nil {
		return response.Error(c, err)
	}
	defer sub.Cancel()

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to upgrade connection", err))
	}

	stream := websocket.NewStream(conn)
	go stream.ReadPump()
	go stream.WritePump()

	for {
		select {
		case messages, ok := <-sub.Updates():
			if !ok {
				stream.Close()
				return nil
			}
			stream.SendJSON(messages)
		case <-stream.Done():
			logger.Debug("StreamMessages: client left thread %s", threadID)
			return nil
		}
	}
}

// StreamThreads pushes the caller's thread list, re-sorted by latest
// activity, on every change.
func (h *WebSocketHandler) StreamThreads(c echo.Context) error {
	authUser := middleware.AuthUserFromContext(c)

	sub, err := h.chatUseCase.SubscribeThreads(c.Request().Context(), authUser)
	if err != nil {
		return response.Error(c, err)
	}
	defer sub.Cancel()

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to upgrade connection", err))
	}

	stream := websocket.NewStream(conn)
	go stream.ReadPump()
	go stream.WritePump()

	for {
		select {
		case threads, ok := <-sub.Updates():
			if !ok {
				stream.Close()
				return nil
			}
			stream.SendJSON(threads)
		case <-stream.Done():
			return nil
		}
	}
}
