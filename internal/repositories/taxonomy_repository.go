package repositories

import (
	"context"

	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaxonomyRepository covers the lookup tables: categories, tags and idea_tags
type TaxonomyRepository interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)
	GetTags(ctx context.Context) ([]models.Tag, error)
	GetTagsByIdeaID(ctx context.Context, ideaID string) ([]models.Tag, error)
	GetTagsByIDs(ctx context.Context, ids []string) ([]models.Tag, error)
	ReplaceIdeaTags(ctx context.Context, ideaID string, tagIDs []string) error
	DeleteIdeaTags(ctx context.Context, ideaID string) error
}

type PostgresTaxonomyRepository struct {
	db *gorm.DB
}

func NewPostgresTaxonomyRepository(db *gorm.DB) *PostgresTaxonomyRepository {
	return &PostgresTaxonomyRepository{db: db}
}

func (r *PostgresTaxonomyRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := conn(ctx, r.db).Order("name").Find(&categories).Error; err != nil {
		return nil, translate("list categories", err, "")
	}
	return categories, nil
}

func (r *PostgresTaxonomyRepository) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := conn(ctx, r.db).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, translate("get category", err, "Category not found")
	}
	return &category, nil
}

func (r *PostgresTaxonomyRepository) GetTags(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := conn(ctx, r.db).Order("name").Find(&tags).Error; err != nil {
		return nil, translate("list tags", err, "")
	}
	return tags, nil
}

func (r *PostgresTaxonomyRepository) GetTagsByIdeaID(ctx context.Context, ideaID string) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := conn(ctx, r.db).
		Joins("JOIN idea_tags ON idea_tags.tag_id = tags.id").
		Where("idea_tags.idea_id = ?", ideaID).
		Order("tags.name").
		Find(&tags).Error
	if err != nil {
		return nil, translate("list idea tags", err, "")
	}
	return tags, nil
}

// GetTagsByIDs returns the tags among ids that exist. Ids that are not
// uuids cannot match a row and are skipped.
func (r *PostgresTaxonomyRepository) GetTagsByIDs(ctx context.Context, ids []string) ([]models.Tag, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	tags := []models.Tag{}
	if len(valid) == 0 {
		return tags, nil
	}
	if err := conn(ctx, r.db).Where("id IN ?", valid).Find(&tags).Error; err != nil {
		return nil, translate("get tags", err, "")
	}
	return tags, nil
}

// ReplaceIdeaTags swaps the idea's tag set for tagIDs
func (r *PostgresTaxonomyRepository) ReplaceIdeaTags(ctx context.Context, ideaID string, tagIDs []string) error {
	db := conn(ctx, r.db)
	if err := db.Where("idea_id = ?", ideaID).Delete(&models.IdeaTag{}).Error; err != nil {
		return translate("replace idea tags", err, "")
	}
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]models.IdeaTag, 0, len(tagIDs))
	seen := make(map[string]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, models.IdeaTag{IdeaID: ideaID, TagID: id})
	}
	return translate("replace idea tags", db.Create(&rows).Error, "")
}

func (r *PostgresTaxonomyRepository) DeleteIdeaTags(ctx context.Context, ideaID string) error {
	return translate("delete idea tags", conn(ctx, r.db).Where("idea_id = ?", ideaID).Delete(&models.IdeaTag{}).Error, "")
}
