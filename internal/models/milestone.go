package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MilestoneStatus string

const (
	MilestonePlanned    MilestoneStatus = "planned"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneCompleted  MilestoneStatus = "completed"
	MilestoneBlocked    MilestoneStatus = "blocked"
)

// milestoneTransitions lists the statuses each status may move to.
var milestoneTransitions = map[MilestoneStatus][]MilestoneStatus{
	MilestonePlanned:    {MilestoneInProgress, MilestoneCompleted, MilestoneBlocked},
	MilestoneInProgress: {MilestonePlanned, MilestoneCompleted, MilestoneBlocked},
	MilestoneCompleted:  {MilestonePlanned, MilestoneInProgress, MilestoneBlocked},
	MilestoneBlocked:    {MilestonePlanned, MilestoneInProgress, MilestoneCompleted},
}

func (s MilestoneStatus) Valid() bool {
	_, ok := milestoneTransitions[s]
	return ok
}

// CanTransitionTo reports whether the status change s -> next is allowed.
func (s MilestoneStatus) CanTransitionTo(next MilestoneStatus) bool {
	for _, allowed := range milestoneTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Milestone is an implementation step of an idea.
// CompletedAt is set iff Status is completed.
type Milestone struct {
	ID          string          `json:"id" gorm:"type:uuid;primaryKey"`
	IdeaID      string          `json:"idea_id" gorm:"size:24;index"`
	Title       string          `json:"title" gorm:"size:200;not null"`
	Description *string         `json:"description"`
	Status      MilestoneStatus `json:"status" gorm:"size:20;not null;default:'planned'"`
	DueDate     *time.Time      `json:"due_date"`
	CompletedAt *time.Time      `json:"completed_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (m *Milestone) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ApplyStatus moves the milestone to next, keeping CompletedAt in step.
// Setting the current status again is a no-op.
func (m *Milestone) ApplyStatus(next MilestoneStatus, now time.Time) bool {
	if m.Status == next {
		return false
	}
	if !m.Status.CanTransitionTo(next) {
		return false
	}
	m.Status = next
	if next == MilestoneCompleted {
		m.CompletedAt = &now
	} else {
		m.CompletedAt = nil
	}
	return true
}

// CreateMilestoneRequest defines the request body for adding a milestone
type CreateMilestoneRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status      string     `json:"status,omitempty" validate:"omitempty,oneof=planned in_progress completed blocked"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// UpdateMilestoneStatusRequest defines the request body for a status change
type UpdateMilestoneStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=planned in_progress completed blocked"`
}
