package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like represents a like on an idea. One row per (idea, user).
type Like struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	IdeaID    string    `json:"idea_id" gorm:"size:24;index;uniqueIndex:idx_idea_user_like"`
	UserID    string    `json:"user_id" gorm:"type:uuid;index;uniqueIndex:idx_idea_user_like"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// LikeState is the existence state of a Like for one (idea, user) pair.
type LikeState string

const (
	Unliked LikeState = "unliked"
	Liked   LikeState = "liked"
)

// Toggle returns the state a like-toggle moves to.
func (s LikeState) Toggle() LikeState {
	if s == Liked {
		return Unliked
	}
	return Liked
}
