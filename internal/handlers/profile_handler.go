package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/anonto42/ideahub/backend/internal/services"
	"github.com/labstack/echo/v4"
)

type ProfileService interface {
	Get(ctx context.Context, id string) (*services.ProfileView, error)
	Update(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.Profile, error)
}

// ProfileHandler serves profiles with their points and level
type ProfileHandler struct {
	profiles ProfileService
}

func NewProfileHandler(profiles ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetOwnProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.GET("/profiles/:id", h.GetProfile)
}

func (h *ProfileHandler) GetOwnProfile(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	view, err := h.profiles.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, view)
}

func (h *ProfileHandler) GetProfile(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	view, err := h.profiles.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, view)
}

func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.profiles.Update(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, profile)
}
