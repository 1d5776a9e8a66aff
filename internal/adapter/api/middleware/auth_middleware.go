package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"unimarket/internal/domain/entity"
	"unimarket/internal/infrastructure/firebase"
	"unimarket/internal/usecase"
	"unimarket/pkg/errors"
	"unimarket/pkg/response"
)

// AuthUserContextKey is the echo context key Authenticate stores the caller
// identity under.
const AuthUserContextKey = "authUser"

// AuthMiddleware verifies Firebase ID tokens and attaches the caller
// identity to the request context. The user document is created on first
// sight, so accounts provisioned via Google sign-in work without a separate
// registration call.
type AuthMiddleware struct {
	authClient  *firebase.AuthClient
	userUseCase *usecase.UserUseCase
}

func NewAuthMiddleware(authClient *firebase.AuthClient, userUseCase *usecase.UserUseCase) *AuthMiddleware {
	return &AuthMiddleware{
		authClient:  authClient,
		userUseCase: userUseCase,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		idToken := bearerToken(c)
		if idToken == "" {
			// WebSocket clients cannot set headers; they pass the token
			// as a query parameter instead.
			idToken = c.QueryParam("token")
		}
		if idToken == "" {
			return response.Error(c, errors.NotAuthenticated("Authorization required", nil))
		}

		authUser, err := m.authClient.AuthUserFromToken(c.Request().Context(), idToken)
		if err != nil {
			return response.Error(c, errors.NotAuthenticated("Invalid or expired token", err))
		}

		if _, err := m.userUseCase.EnsureUser(c.Request().Context(), authUser); err != nil {
			return response.Error(c, err)
		}

		c.Set(AuthUserContextKey, authUser)
		c.Set("uid", authUser.UID)

		return next(c)
	}
}

func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// AuthUserFromContext returns the identity set by Authenticate.
func AuthUserFromContext(c echo.Context) entity.AuthUser {
	if au, ok := c.Get(AuthUserContextKey).(entity.AuthUser); ok {
		return au
	}
	return entity.AuthUser{}
}
