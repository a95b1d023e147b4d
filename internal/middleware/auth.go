package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/ideahub/backend/internal/apperr"
	"github.com/labstack/echo/v4"
)

const userIDKey = "userID"

// Authenticator resolves a bearer token to a profile id.
type Authenticator func(c echo.Context, token string) (string, error)

// Auth requires a bearer token accepted by one of the authenticators, tried
// in order. The resolved profile id is stored on the context.
func Auth(authenticators ...Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			var lastErr error
			for _, authenticate := range authenticators {
				userID, err := authenticate(c, parts[1])
				if err == nil && userID != "" {
					c.Set(userIDKey, userID)
					return next(c)
				}
				lastErr = err
			}

			var he *echo.HTTPError
			var ae *apperr.Error
			if errors.As(lastErr, &he) || errors.As(lastErr, &ae) {
				return lastErr
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}
	}
}

// UserID returns the authenticated profile id, or "" outside Auth.
func UserID(c echo.Context) string {
	if id, ok := c.Get(userIDKey).(string); ok {
		return id
	}
	return ""
}
