package repositories

import (
	"context"
	"time"

	"github.com/anonto42/ideahub/backend/internal/apperr"
	"github.com/anonto42/ideahub/backend/internal/models"
	"gorm.io/gorm"
)

// MilestoneRepository defines the interface for milestone data operations
type MilestoneRepository interface {
	CreateMilestone(ctx context.Context, milestone *models.Milestone) error
	GetMilestoneByID(ctx context.Context, id string) (*models.Milestone, error)
	GetMilestonesByIdeaID(ctx context.Context, ideaID string) ([]models.Milestone, error)
	UpdateMilestoneStatus(ctx context.Context, milestone *models.Milestone) error
	DeleteMilestone(ctx context.Context, id string) error
	DeleteMilestonesByIdeaID(ctx context.Context, ideaID string) error
}

type PostgresMilestoneRepository struct {
	db *gorm.DB
}

func NewPostgresMilestoneRepository(db *gorm.DB) *PostgresMilestoneRepository {
	return &PostgresMilestoneRepository{db: db}
}

func (r *PostgresMilestoneRepository) CreateMilestone(ctx context.Context, milestone *models.Milestone) error {
	return translate("create milestone", conn(ctx, r.db).Create(milestone).Error, "")
}

func (r *PostgresMilestoneRepository) GetMilestoneByID(ctx context.Context, id string) (*models.Milestone, error) {
	var milestone models.Milestone
	if err := conn(ctx, r.db).Where("id = ?", id).First(&milestone).Error; err != nil {
		return nil, translate("get milestone", err, "Milestone not found")
	}
	return &milestone, nil
}

// GetMilestonesByIdeaID lists milestones in creation order
func (r *PostgresMilestoneRepository) GetMilestonesByIdeaID(ctx context.Context, ideaID string) ([]models.Milestone, error) {
	milestones := []models.Milestone{}
	if err := conn(ctx, r.db).Where("idea_id = ?", ideaID).Order("created_at").Find(&milestones).Error; err != nil {
		return nil, translate("list milestones", err, "")
	}
	return milestones, nil
}

// UpdateMilestoneStatus writes status and completed_at together
func (r *PostgresMilestoneRepository) UpdateMilestoneStatus(ctx context.Context, milestone *models.Milestone) error {
	milestone.UpdatedAt = time.Now()
	res := conn(ctx, r.db).Model(&models.Milestone{}).Where("id = ?", milestone.ID).
		Updates(map[string]interface{}{
			"status":       milestone.Status,
			"completed_at": milestone.CompletedAt,
			"updated_at":   milestone.UpdatedAt,
		})
	if res.Error != nil {
		return translate("update milestone status", res.Error, "")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("update milestone status", "Milestone not found")
	}
	return nil
}

func (r *PostgresMilestoneRepository) DeleteMilestone(ctx context.Context, id string) error {
	return translate("delete milestone", conn(ctx, r.db).Where("id = ?", id).Delete(&models.Milestone{}).Error, "")
}

func (r *PostgresMilestoneRepository) DeleteMilestonesByIdeaID(ctx context.Context, ideaID string) error {
	return translate("delete idea milestones", conn(ctx, r.db).Where("idea_id = ?", ideaID).Delete(&models.Milestone{}).Error, "")
}
