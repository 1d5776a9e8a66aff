package handler

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/usecase"
	"unimarket/pkg/response"
)

// AuthHandler exposes registration. Sign-in itself happens directly against
// the identity provider from the client; the backend only ever sees ID
// tokens.
type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"display_name" validate:"required,min=2"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.authUseCase.Register(c.Request().Context(), usecase.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, user)
}
