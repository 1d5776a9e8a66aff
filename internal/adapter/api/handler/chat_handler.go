package handler

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/adapter/api/middleware"
	"unimarket/internal/usecase"
	"unimarket/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type contactSellerRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

// ContactSeller opens (or returns) the conversation between the caller and
// the listing's owner about that listing.
func (h *ChatHandler) ContactSeller(c echo.Context) error {
	var req contactSellerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	authUser := middleware.AuthUserFromContext(c)

	thread, err := h.chatUseCase.GetOrCreateThread(c.Request().Context(), authUser, req.ListingID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, thread)
}

// ListThreads returns the caller's conversations, most recently active
// first.
func (h *ChatHandler) ListThreads(c echo.Context) error {
	authUser := middleware.AuthUserFromContext(c)

	threads, err := h.chatUseCase.ListThreads(c.Request().Context(), authUser)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, threads)
}

func (h *ChatHandler) GetThread(c echo.Context) error {
	authUser := middleware.AuthUserFromContext(c)

	thread, err := h.chatUseCase.GetThread(c.Request().Context(), authUser, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, thread)
}

func (h *ChatHandler) ListMessages(c echo.Context) error {
	authUser := middleware.AuthUserFromContext(c)

	messages, err := h.chatUseCase.ListMessages(c.Request().Context(), authUser, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	authUser := middleware.AuthUserFromContext(c)

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), authUser, c.Param("id"), req.Text)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}
