package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/ideahub/backend/internal/apperr"
	"github.com/anonto42/ideahub/backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorHandler renders errors in the response envelope and maps apperr kinds
// to HTTP status codes.
func ErrorHandler(logger *zap.SugaredLogger) echo.HTTPErrorHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code, message := classify(err)
		if status >= http.StatusInternalServerError {
			logger.Errorw("request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"user_id", middleware.UserID(c),
				"error", err,
			)
		}

		body := echo.Map{
			"success": false,
			"error": echo.Map{
				"code":    code,
				"message": message,
			},
		}
		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Warnw("failed to write error response", "error", writeErr)
		}
	}
}

func classify(err error) (int, string, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, http.StatusText(he.Code), fmt.Sprint(he.Message)
	}

	message := apperr.PublicMessage(err)
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR", message
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", message
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", message
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, "CONFLICT", message
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", message
	}
}

// currentUser returns the authenticated profile id or a 401.
func currentUser(c echo.Context) (string, error) {
	userID := middleware.UserID(c)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return userID, nil
}

// bindAndValidate decodes the request body into req and runs e.Validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}

// uuidParam returns the named path parameter if it parses as a uuid.
func uuidParam(c echo.Context, name string) (string, error) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", apperr.Validation("parse path "+name, "Invalid "+name)
	}
	return id, nil
}

func ok(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}
