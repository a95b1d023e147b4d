package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment represents a comment on an idea
type Comment struct {
	ID        string          `json:"id" gorm:"type:uuid;primaryKey"`
	Content   string          `json:"content" gorm:"type:text;not null"`
	IdeaID    string          `json:"idea_id" gorm:"size:24;index"` // MongoDB ObjectID of the idea
	UserID    string          `json:"user_id" gorm:"type:uuid;index"`
	CreatedAt time.Time       `json:"created_at" gorm:"index"`
	Profile   *ProfileCompact `json:"profile,omitempty" gorm:"-"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
