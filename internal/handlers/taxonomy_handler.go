package handlers

import (
	"net/http"

	"github.com/anonto42/ideahub/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// TaxonomyHandler serves the category and tag lookups
type TaxonomyHandler struct {
	taxonomyRepository repositories.TaxonomyRepository
}

func NewTaxonomyHandler(taxonomyRepo repositories.TaxonomyRepository) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomyRepository: taxonomyRepo}
}

func (h *TaxonomyHandler) RegisterTaxonomyRoutes(g *echo.Group) {
	g.GET("/categories", h.GetCategories)
	g.GET("/tags", h.GetTags)
}

func (h *TaxonomyHandler) GetCategories(c echo.Context) error {
	categories, err := h.taxonomyRepository.GetCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"categories": categories})
}

func (h *TaxonomyHandler) GetTags(c echo.Context) error {
	tags, err := h.taxonomyRepository.GetTags(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"tags": tags})
}
