package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is inert lookup data for grouping ideas
type Category struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"size:100;uniqueIndex"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Tag is inert lookup data attached to ideas through IdeaTag
type Tag struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"size:50;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

type IdeaTag struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	IdeaID    string    `json:"idea_id" gorm:"size:24;index;uniqueIndex:idx_idea_tag"`
	TagID     string    `json:"tag_id" gorm:"type:uuid;index;uniqueIndex:idx_idea_tag"`
	CreatedAt time.Time `json:"created_at"`
	Tag       *Tag      `json:"tag,omitempty" gorm:"foreignKey:TagID"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (it *IdeaTag) BeforeCreate(tx *gorm.DB) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	return nil
}
