package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/anonto42/ideahub/backend/internal/services"
	"github.com/labstack/echo/v4"
)

type NotificationService interface {
	List(ctx context.Context, userID string, page, limit int) (*services.NotificationPage, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, actingUserID, id string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, actingUserID, id string) error
}

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.DELETE("/notifications/:id", h.DeleteNotification)
}

// GetNotifications returns paginated notifications
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.notifications.List(c.Request().Context(), userID, page, limit)
	if err != nil {
		return err
	}

	totalPages := int(math.Ceil(float64(result.Total) / float64(result.Limit)))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": result.Items,
		},
		"meta": echo.Map{
			"currentPage":     result.Page,
			"totalPages":      totalPages,
			"totalItems":      result.Total,
			"itemsPerPage":    result.Limit,
			"hasNextPage":     result.Page < totalPages,
			"hasPreviousPage": result.Page > 1,
		},
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	count, err := h.notifications.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks a notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.notifications.MarkAsRead(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.notifications.MarkAllAsRead(c.Request().Context(), userID); err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"success": true})
}

func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.notifications.Delete(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
