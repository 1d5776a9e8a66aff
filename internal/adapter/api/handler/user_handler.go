package handler

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/adapter/api/middleware"
	"unimarket/internal/usecase"
	"unimarket/pkg/errors"
	"unimarket/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=2"`
}

func (h *UserHandler) GetMe(c echo.Context) error {
	authUser := middleware.AuthUserFromContext(c)

	user, err := h.userUseCase.GetProfile(c.Request().Context(), authUser.UID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userUseCase.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	authUser := middleware.AuthUserFromContext(c)

	user, err := h.userUseCase.UpdateDisplayName(c.Request().Context(), authUser, req.DisplayName)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

// UploadAvatar replaces the caller's profile photo from a multipart upload.
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	if file.Size > maxUploadBytes {
		return response.Error(c, errors.BadRequest("File size exceeds maximum allowed (5MB)", nil))
	}

	contentType := file.Header.Get("Content-Type")
	if !isAllowedImageType(contentType) {
		return response.Error(c, errors.BadRequest("File type not supported", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	authUser := middleware.AuthUserFromContext(c)

	user, err := h.userUseCase.UpdateAvatar(c.Request().Context(), authUser, src, contentType)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
