package handler

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/usecase"
	"unimarket/pkg/response"
	"unimarket/pkg/utils"
)

type AdminHandler struct {
	adminUseCase *usecase.AdminUseCase
}

func NewAdminHandler(adminUseCase *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
	}
}

type setAdminRequest struct {
	IsAdmin bool `json:"is_admin"`
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminUseCase.ListUsers(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, users)
}

func (h *AdminHandler) SetAdmin(c echo.Context) error {
	var req setAdminRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.adminUseCase.SetAdmin(c.Request().Context(), c.Param("id"), req.IsAdmin); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"is_admin": req.IsAdmin})
}

func (h *AdminHandler) ListListings(c echo.Context) error {
	listings, err := h.adminUseCase.ListListings(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	params := utils.GetPaginationParams(c)
	total := int64(len(listings))

	start := params.Offset
	if start > len(listings) {
		start = len(listings)
	}
	end := start + params.PageSize
	if end > len(listings) {
		end = len(listings)
	}

	return response.Paginated(c, listings[start:end], total, params.Page, params.PageSize)
}

func (h *AdminHandler) SetListingStatus(c echo.Context) error {
	var req listingStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.adminUseCase.SetListingStatus(c.Request().Context(), c.Param("id"), req.Status); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": req.Status})
}

func (h *AdminHandler) DeleteListing(c echo.Context) error {
	if err := h.adminUseCase.DeleteListing(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Listing deleted"})
}

func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.adminUseCase.Stats(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}
