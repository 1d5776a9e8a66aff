package middleware

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/domain/repository"
	"unimarket/pkg/errors"
	"unimarket/pkg/response"
)

type AdminMiddleware struct {
	userRepo repository.UserRepository
}

func NewAdminMiddleware(userRepo repository.UserRepository) *AdminMiddleware {
	return &AdminMiddleware{
		userRepo: userRepo,
	}
}

// AdminOnly requires the authenticated caller's user document to carry the
// admin flag. Runs behind Authenticate.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get("uid").(string)
		if !ok || uid == "" {
			return response.Error(c, errors.NotAuthenticated("Authentication required", nil))
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), uid)
		if err != nil {
			return response.Error(c, errors.Internal("Failed to verify admin privileges", err))
		}

		if !user.IsAdmin {
			return response.Error(c, errors.AccessDenied("Admin privileges required", nil))
		}

		return next(c)
	}
}
