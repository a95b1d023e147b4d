package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/labstack/echo/v4"
)

type FeedService interface {
	Feed(ctx context.Context, userID string, page, limit int) ([]models.IdeaDetail, error)
}

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feed FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns ideas from the current user and the profiles they follow
func (h *FeedHandler) GetFeed(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	ideas, err := h.feed.Feed(c.Request().Context(), userID, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"ideas": ideas,
		},
		"meta": echo.Map{
			"currentPage":     page,
			"itemsPerPage":    limit,
			"hasNextPage":     len(ideas) == limit,
			"hasPreviousPage": page > 1,
		},
	})
}
