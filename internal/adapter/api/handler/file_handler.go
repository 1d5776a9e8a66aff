package handler

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/adapter/api/middleware"
	"unimarket/internal/usecase"
	"unimarket/pkg/errors"
	"unimarket/pkg/logger"
	"unimarket/pkg/response"
)

const maxUploadBytes = 5 * 1024 * 1024

// FileHandler uploads listing photos ahead of listing creation. The client
// uploads images first and submits the returned URLs with the listing form.
type FileHandler struct {
	storage usecase.BlobStorage
}

var fileHandler *FileHandler

func NewFileHandler(storage usecase.BlobStorage) *FileHandler {
	return &FileHandler{
		storage: storage,
	}
}

func SetupFileHandler(storage usecase.BlobStorage) {
	fileHandler = NewFileHandler(storage)
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

func (h *FileHandler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		logger.Error("UploadImage: error getting file from form: %v", err)
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	if file.Size > maxUploadBytes {
		logger.Warn("UploadImage: file too large: %d bytes", file.Size)
		return response.Error(c, errors.BadRequest("File size exceeds maximum allowed (5MB)", nil))
	}

	contentType := file.Header.Get("Content-Type")
	if !isAllowedImageType(contentType) {
		logger.Warn("UploadImage: unsupported type: %s", contentType)
		return response.Error(c, errors.BadRequest("File type not supported", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	authUser := middleware.AuthUserFromContext(c)

	url, err := h.storage.Upload(c.Request().Context(), src, contentType, "listings/"+authUser.UID)
	if err != nil {
		logger.Error("UploadImage: upload failed: %v", err)
		return response.Error(c, errors.Internal("Failed to upload file", err))
	}

	return response.Created(c, map[string]string{"url": url})
}

func isAllowedImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}
