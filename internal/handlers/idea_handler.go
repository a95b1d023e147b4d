package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/anonto42/ideahub/backend/internal/middleware"
	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/anonto42/ideahub/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

type IdeaService interface {
	Create(ctx context.Context, userID string, req models.CreateIdeaRequest) (*models.IdeaDetail, error)
	Get(ctx context.Context, id, viewerID string) (*models.IdeaDetail, error)
	List(ctx context.Context, filter repositories.IdeaFilter, page, limit int, viewerID string) ([]models.IdeaDetail, error)
	Search(ctx context.Context, query string, limit int, viewerID string) ([]models.IdeaDetail, error)
	Update(ctx context.Context, userID, id string, req models.UpdateIdeaRequest) (*models.IdeaDetail, error)
	Delete(ctx context.Context, userID, id string) error
}

// IdeaHandler handles HTTP requests related to ideas
type IdeaHandler struct {
	ideas IdeaService
}

// NewIdeaHandler creates a new IdeaHandler
func NewIdeaHandler(ideas IdeaService) *IdeaHandler {
	return &IdeaHandler{ideas: ideas}
}

// RegisterIdeaRoutes registers idea-related routes
func (h *IdeaHandler) RegisterIdeaRoutes(g *echo.Group) {
	g.POST("/ideas", h.CreateIdea)
	g.GET("/ideas", h.ListIdeas)
	g.GET("/ideas/search", h.SearchIdeas)
	g.GET("/ideas/:id", h.GetIdea)
	g.PUT("/ideas/:id", h.UpdateIdea)
	g.DELETE("/ideas/:id", h.DeleteIdea)
}

// CreateIdea handles the creation of a new idea
func (h *IdeaHandler) CreateIdea(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.CreateIdeaRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	idea, err := h.ideas.Create(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, idea)
}

// GetIdea retrieves an idea with its owner, category, tags and counters
func (h *IdeaHandler) GetIdea(c echo.Context) error {
	idea, err := h.ideas.Get(c.Request().Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, idea)
}

// ListIdeas lists ideas newest first, optionally by category or owner
func (h *IdeaHandler) ListIdeas(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	filter := repositories.IdeaFilter{
		CategoryID: c.QueryParam("category_id"),
		UserID:     c.QueryParam("user_id"),
	}

	ideas, err := h.ideas.List(c.Request().Context(), filter, page, limit, middleware.UserID(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"ideas": ideas})
}

// SearchIdeas matches the query against titles and descriptions
func (h *IdeaHandler) SearchIdeas(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	ideas, err := h.ideas.Search(c.Request().Context(), c.QueryParam("q"), limit, middleware.UserID(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"ideas": ideas})
}

// UpdateIdea updates an idea owned by the current user
func (h *IdeaHandler) UpdateIdea(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.UpdateIdeaRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	idea, err := h.ideas.Update(c.Request().Context(), userID, c.Param("id"), req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, idea)
}

// DeleteIdea deletes an idea owned by the current user
func (h *IdeaHandler) DeleteIdea(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.ideas.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
