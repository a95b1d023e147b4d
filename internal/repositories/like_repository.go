package repositories

import (
	"context"

	"github.com/anonto42/ideahub/backend/internal/apperr"
	"github.com/anonto42/ideahub/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, id string) error
	FindLike(ctx context.Context, ideaID, userID string) (*models.Like, error)
	GetLikesCountByIdeaID(ctx context.Context, ideaID string) (int64, error)
	HasUserLikedIdea(ctx context.Context, ideaID, userID string) (bool, error)
	DeleteLikesByIdeaID(ctx context.Context, ideaID string) error
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike creates a new like in PostgreSQL
func (r *PostgresLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	return translate("create like", conn(ctx, r.db).Create(like).Error, "")
}

// DeleteLike deletes a like row by its ID
func (r *PostgresLikeRepository) DeleteLike(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Where("id = ?", id).Delete(&models.Like{})
	if res.Error != nil {
		return translate("delete like", res.Error, "")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("delete like", "Like not found")
	}
	return nil
}

// FindLike returns the like of userID on ideaID, or nil when there is none
func (r *PostgresLikeRepository) FindLike(ctx context.Context, ideaID, userID string) (*models.Like, error) {
	var likes []models.Like
	if err := conn(ctx, r.db).Where("idea_id = ? AND user_id = ?", ideaID, userID).Limit(1).Find(&likes).Error; err != nil {
		return nil, translate("find like", err, "")
	}
	if len(likes) == 0 {
		return nil, nil
	}
	return &likes[0], nil
}

// GetLikesCountByIdeaID retrieves the count of likes for an idea
func (r *PostgresLikeRepository) GetLikesCountByIdeaID(ctx context.Context, ideaID string) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.Like{}).Where("idea_id = ?", ideaID).Count(&count).Error; err != nil {
		return 0, translate("count likes", err, "")
	}
	return count, nil
}

// HasUserLikedIdea checks if a user has liked a specific idea
func (r *PostgresLikeRepository) HasUserLikedIdea(ctx context.Context, ideaID, userID string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.Like{}).Where("idea_id = ? AND user_id = ?", ideaID, userID).Count(&count).Error; err != nil {
		return false, translate("check like", err, "")
	}
	return count > 0, nil
}

func (r *PostgresLikeRepository) DeleteLikesByIdeaID(ctx context.Context, ideaID string) error {
	return translate("delete idea likes", conn(ctx, r.db).Where("idea_id = ?", ideaID).Delete(&models.Like{}).Error, "")
}
