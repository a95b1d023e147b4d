package repositories

import (
	"context"

	"github.com/anonto42/ideahub/backend/internal/apperr"
	"github.com/anonto42/ideahub/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(ctx context.Context, follow *models.Follow) error
	DeleteFollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	GetFollowersCount(ctx context.Context, userID string) (int64, error)
	GetFollowingCount(ctx context.Context, userID string) (int64, error)
	GetFollowingIDs(ctx context.Context, userID string) ([]string, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) CreateFollow(ctx context.Context, follow *models.Follow) error {
	return translate("create follow", conn(ctx, r.db).Create(follow).Error, "")
}

func (r *PostgresFollowRepository) DeleteFollow(ctx context.Context, followerID, followingID string) error {
	res := conn(ctx, r.db).Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return translate("delete follow", res.Error, "")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("delete follow", "Follow relationship not found")
	}
	return nil
}

func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", followerID, followingID).Count(&count).Error; err != nil {
		return false, translate("check follow", err, "")
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) GetFollowersCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, translate("count followers", err, "")
}

func (r *PostgresFollowRepository) GetFollowingCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, translate("count following", err, "")
}

// GetFollowingIDs returns the ids of every profile userID follows.
func (r *PostgresFollowRepository) GetFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := conn(ctx, r.db).Model(&models.Follow{}).Where("follower_id = ?", userID).Pluck("following_id", &ids).Error
	return ids, translate("list following", err, "")
}
