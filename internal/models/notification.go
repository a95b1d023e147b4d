package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationComment NotificationType = "comment"
	NotificationLike    NotificationType = "like"
	NotificationFollow  NotificationType = "follow"
)

// Notification is created only by the fan-out; afterwards only IsRead changes.
type Notification struct {
	ID        string           `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string           `json:"user_id" gorm:"type:uuid;index"` // recipient
	SenderID  *string          `json:"sender_id" gorm:"type:uuid;index"`
	IdeaID    *string          `json:"idea_id" gorm:"size:24;index"`
	CommentID *string          `json:"comment_id" gorm:"type:uuid"`
	Type      NotificationType `json:"type" gorm:"size:20;index"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time        `json:"created_at" gorm:"index"`
	Sender    *ProfileCompact  `json:"sender,omitempty" gorm:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// ReadState is the read-state of a notification. The only transition is Unread -> Read.
type ReadState string

const (
	Unread ReadState = "unread"
	Read   ReadState = "read"
)

func (n *Notification) ReadState() ReadState {
	if n.IsRead {
		return Read
	}
	return Unread
}

// NewNotification is the input of the notification fan-out.
type NewNotification struct {
	UserID    string           `json:"user_id" validate:"required"`
	SenderID  *string          `json:"sender_id,omitempty"`
	IdeaID    *string          `json:"idea_id,omitempty"`
	CommentID *string          `json:"comment_id,omitempty"`
	Type      NotificationType `json:"type" validate:"required,oneof=comment like follow"`
	Message   string           `json:"message" validate:"required"`
}
