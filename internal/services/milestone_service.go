package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anonto42/ideahub/backend/internal/apperr"
	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/anonto42/ideahub/backend/internal/repositories"
)

// MilestoneService manages the implementation steps of an idea. Only the
// idea owner may change them.
type MilestoneService struct {
	ideas      repositories.IdeaRepository
	milestones repositories.MilestoneRepository
	now        func() time.Time
}

func NewMilestoneService(ideas repositories.IdeaRepository, milestones repositories.MilestoneRepository) *MilestoneService {
	return &MilestoneService{ideas: ideas, milestones: milestones, now: time.Now}
}

func (s *MilestoneService) List(ctx context.Context, ideaID string) ([]models.Milestone, error) {
	if _, err := s.ideas.GetIdeaByID(ctx, ideaID); err != nil {
		return nil, err
	}
	return s.milestones.GetMilestonesByIdeaID(ctx, ideaID)
}

func (s *MilestoneService) Create(ctx context.Context, actingUserID, ideaID string, req models.CreateMilestoneRequest) (*models.Milestone, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperr.Validation("create milestone", "Title is required")
	}
	status := models.MilestonePlanned
	if req.Status != "" {
		status = models.MilestoneStatus(req.Status)
		if !status.Valid() {
			return nil, apperr.Validation("create milestone", fmt.Sprintf("Unknown status %q", req.Status))
		}
	}
	if err := s.checkOwner(ctx, "create milestone", actingUserID, ideaID); err != nil {
		return nil, err
	}

	milestone := &models.Milestone{
		IdeaID:      ideaID,
		Title:       title,
		Description: req.Description,
		Status:      status,
		DueDate:     req.DueDate,
	}
	if status == models.MilestoneCompleted {
		now := s.now().UTC()
		milestone.CompletedAt = &now
	}

	if err := s.milestones.CreateMilestone(ctx, milestone); err != nil {
		return nil, err
	}
	return milestone, nil
}

// UpdateStatus moves a milestone through the transition table. Repeating the
// current status changes nothing.
func (s *MilestoneService) UpdateStatus(ctx context.Context, actingUserID, id, status string) (*models.Milestone, error) {
	next := models.MilestoneStatus(status)
	if !next.Valid() {
		return nil, apperr.Validation("update milestone status", fmt.Sprintf("Unknown status %q", status))
	}

	milestone, err := s.milestones.GetMilestoneByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, "update milestone status", actingUserID, milestone.IdeaID); err != nil {
		return nil, err
	}

	if milestone.Status == next {
		return milestone, nil
	}
	if !milestone.ApplyStatus(next, s.now().UTC()) {
		return nil, apperr.Validation("update milestone status",
			fmt.Sprintf("Cannot move milestone from %s to %s", milestone.Status, next))
	}
	if err := s.milestones.UpdateMilestoneStatus(ctx, milestone); err != nil {
		return nil, err
	}
	return milestone, nil
}

func (s *MilestoneService) Delete(ctx context.Context, actingUserID, id string) error {
	milestone, err := s.milestones.GetMilestoneByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkOwner(ctx, "delete milestone", actingUserID, milestone.IdeaID); err != nil {
		return err
	}
	return s.milestones.DeleteMilestone(ctx, id)
}

func (s *MilestoneService) checkOwner(ctx context.Context, op, actingUserID, ideaID string) error {
	idea, err := s.ideas.GetIdeaByID(ctx, ideaID)
	if err != nil {
		return err
	}
	if idea.UserID != actingUserID {
		return apperr.Forbidden(op, "Only the idea owner can manage milestones")
	}
	return nil
}
