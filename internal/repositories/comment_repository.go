package repositories

import (
	"context"

	"github.com/anonto42/ideahub/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	GetCommentsByIdeaID(ctx context.Context, ideaID string) ([]models.Comment, error)
	CountCommentsByIdeaID(ctx context.Context, ideaID string) (int64, error)
	DeleteComment(ctx context.Context, id string) error
	DeleteCommentsByIdeaID(ctx context.Context, ideaID string) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return translate("create comment", conn(ctx, r.db).Create(comment).Error, "")
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := conn(ctx, r.db).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, translate("get comment", err, "Comment not found")
	}
	return &comment, nil
}

// GetCommentsByIdeaID retrieves all comments for an idea, oldest first
func (r *PostgresCommentRepository) GetCommentsByIdeaID(ctx context.Context, ideaID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := conn(ctx, r.db).Where("idea_id = ?", ideaID).Order("created_at").Find(&comments).Error; err != nil {
		return nil, translate("list comments", err, "")
	}
	return comments, nil
}

func (r *PostgresCommentRepository) CountCommentsByIdeaID(ctx context.Context, ideaID string) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.Comment{}).Where("idea_id = ?", ideaID).Count(&count).Error; err != nil {
		return 0, translate("count comments", err, "")
	}
	return count, nil
}

// DeleteComment deletes a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) DeleteComment(ctx context.Context, id string) error {
	return translate("delete comment", conn(ctx, r.db).Where("id = ?", id).Delete(&models.Comment{}).Error, "")
}

func (r *PostgresCommentRepository) DeleteCommentsByIdeaID(ctx context.Context, ideaID string) error {
	return translate("delete idea comments", conn(ctx, r.db).Where("idea_id = ?", ideaID).Delete(&models.Comment{}).Error, "")
}
