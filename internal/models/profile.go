package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Level is a named band of the points scale.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
	LevelExpert       Level = "Expert"
	LevelMaster       Level = "Master"
)

// Profile is the public face of a user. Points and Level only change
// together through the points engine.
type Profile struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	Username    string    `json:"username" gorm:"size:50;not null"`
	AvatarURL   *string   `json:"avatar_url"`
	Points      int       `json:"points" gorm:"not null;default:0;check:points >= 0"`
	Level       Level     `json:"level" gorm:"size:20;not null;default:'Beginner'"`
	Email       string    `json:"-" gorm:"index"`
	FirebaseUID string    `json:"-" gorm:"uniqueIndex"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Level == "" {
		p.Level = LevelBeginner
	}
	return nil
}

// ProfileCompact is the projection joined onto ideas, comments and notifications.
type ProfileCompact struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

func (p *Profile) ToCompact() ProfileCompact {
	return ProfileCompact{ID: p.ID, Username: p.Username, AvatarURL: p.AvatarURL}
}

// UpdateProfileRequest defines the request body for editing the own profile
type UpdateProfileRequest struct {
	Username  string  `json:"username" validate:"required,min=1,max=50"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
