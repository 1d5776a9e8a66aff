package handler

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/adapter/api/middleware"
	"unimarket/internal/domain/entity"
	"unimarket/internal/usecase"
	"unimarket/pkg/response"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

type listingRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description" validate:"required"`
	Category    string           `json:"category" validate:"required"`
	Condition   string           `json:"condition" validate:"required"`
	Price       float64          `json:"price" validate:"gte=0"`
	Images      []string         `json:"images" validate:"required,min=1,max=5,dive,url"`
	Location    *entity.Location `json:"location,omitempty"`
}

type listingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active reserved sold"`
}

func (r listingRequest) toInput() usecase.ListingInput {
	return usecase.ListingInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Condition:   r.Condition,
		Price:       r.Price,
		Images:      r.Images,
		Location:    r.Location,
	}
}

func (h *ListingHandler) Create(c echo.Context) error {
	var req listingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	authUser := middleware.AuthUserFromContext(c)

	listing, err := h.listingUseCase.Create(c.Request().Context(), authUser, req.toInput())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

// List returns active listings, optionally filtered by category and a free
// text search.
func (h *ListingHandler) List(c echo.Context) error {
	listings, err := h.listingUseCase.ListActive(
		c.Request().Context(),
		c.QueryParam("category"),
		c.QueryParam("search"),
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listings)
}

func (h *ListingHandler) GetByID(c echo.Context) error {
	listing, err := h.listingUseCase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) ListMine(c echo.Context) error {
	authUser := middleware.AuthUserFromContext(c)

	listings, err := h.listingUseCase.ListMine(c.Request().Context(), authUser)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listings)
}

func (h *ListingHandler) Update(c echo.Context) error {
	var req listingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	authUser := middleware.AuthUserFromContext(c)

	listing, err := h.listingUseCase.Update(c.Request().Context(), authUser, c.Param("id"), req.toInput())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) UpdateStatus(c echo.Context) error {
	var req listingStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	authUser := middleware.AuthUserFromContext(c)

	if err := h.listingUseCase.ChangeStatus(c.Request().Context(), authUser, c.Param("id"), req.Status); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": req.Status})
}

func (h *ListingHandler) Delete(c echo.Context) error {
	authUser := middleware.AuthUserFromContext(c)

	if err := h.listingUseCase.Delete(c.Request().Context(), authUser, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Listing deleted"})
}
