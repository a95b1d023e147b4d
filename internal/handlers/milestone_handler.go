package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/labstack/echo/v4"
)

type MilestoneService interface {
	List(ctx context.Context, ideaID string) ([]models.Milestone, error)
	Create(ctx context.Context, actingUserID, ideaID string, req models.CreateMilestoneRequest) (*models.Milestone, error)
	UpdateStatus(ctx context.Context, actingUserID, id, status string) (*models.Milestone, error)
	Delete(ctx context.Context, actingUserID, id string) error
}

type MilestoneHandler struct {
	milestones MilestoneService
}

func NewMilestoneHandler(milestones MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{milestones: milestones}
}

func (h *MilestoneHandler) RegisterMilestoneRoutes(g *echo.Group) {
	g.GET("/ideas/:id/milestones", h.ListMilestones)
	g.POST("/ideas/:id/milestones", h.CreateMilestone)
	g.PUT("/milestones/:id/status", h.UpdateMilestoneStatus)
	g.DELETE("/milestones/:id", h.DeleteMilestone)
}

func (h *MilestoneHandler) ListMilestones(c echo.Context) error {
	milestones, err := h.milestones.List(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"milestones": milestones})
}

func (h *MilestoneHandler) CreateMilestone(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.CreateMilestoneRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	milestone, err := h.milestones.Create(c.Request().Context(), userID, c.Param("id"), req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, milestone)
}

func (h *MilestoneHandler) UpdateMilestoneStatus(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.UpdateMilestoneStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	milestone, err := h.milestones.UpdateStatus(c.Request().Context(), userID, id, req.Status)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, milestone)
}

func (h *MilestoneHandler) DeleteMilestone(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.milestones.Delete(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
