package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SagaStepKind string

const (
	StepAwardPoints SagaStepKind = "award_points"
	StepNotify      SagaStepKind = "notify"
)

type SagaStepStatus string

const (
	StepPending SagaStepStatus = "pending"
	StepDone    SagaStepStatus = "done"
	StepFailed  SagaStepStatus = "failed"
)

// SagaStep is the durable outbox record of one pending side effect of a
// social action. Steps of the same saga run in Seq order.
type SagaStep struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey"`
	SagaID    string         `json:"saga_id" gorm:"type:uuid;index"`
	Action    string         `json:"action" gorm:"size:20"`
	Kind      SagaStepKind   `json:"kind" gorm:"size:20"`
	Seq       int            `json:"seq"`
	Payload   datatypes.JSON `json:"payload" gorm:"type:jsonb"`
	Status    SagaStepStatus `json:"status" gorm:"size:10;index;default:'pending'"`
	Attempts  int            `json:"attempts"`
	LastError string         `json:"last_error"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (s *SagaStep) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = StepPending
	}
	return nil
}
