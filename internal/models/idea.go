package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Idea is a user-authored post stored in MongoDB
type Idea struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	UserID      string             `json:"user_id" bson:"user_id"` // Profile ID of the owner
	CategoryID  *string            `json:"category_id" bson:"category_id,omitempty"`
	ShareCount  int                `json:"share_count" bson:"share_count"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// IdeaDetail is an idea with its joined data
type IdeaDetail struct {
	Idea
	Profile       *ProfileCompact `json:"profile,omitempty"`
	Category      *Category       `json:"category,omitempty"`
	Tags          []Tag           `json:"tags"`
	LikesCount    int64           `json:"likes_count"`
	CommentsCount int64           `json:"comments_count"`
	UserHasLiked  bool            `json:"user_has_liked"`
}

// CreateIdeaRequest defines the request body for creating a new idea
type CreateIdeaRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=120"`
	Description string   `json:"description" validate:"required,min=10,max=5000"`
	CategoryID  *string  `json:"category_id,omitempty" validate:"omitempty,uuid"`
	TagIDs      []string `json:"tag_ids,omitempty" validate:"omitempty,max=10,dive,uuid"`
}

// UpdateIdeaRequest defines the request body for updating an existing idea
type UpdateIdeaRequest struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,min=3,max=120"`
	Description string   `json:"description,omitempty" validate:"omitempty,min=10,max=5000"`
	CategoryID  *string  `json:"category_id,omitempty" validate:"omitempty,uuid"`
	TagIDs      []string `json:"tag_ids,omitempty" validate:"omitempty,max=10,dive,uuid"`
}
