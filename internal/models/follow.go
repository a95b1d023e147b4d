package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow represents a one-way follow relationship
type Follow struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	FollowerID  string    `json:"follower_id" gorm:"type:uuid;index;uniqueIndex:idx_follower_following"`
	FollowingID string    `json:"following_id" gorm:"type:uuid;index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
