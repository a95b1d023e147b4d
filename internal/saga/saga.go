// Package saga runs the side effects of a social action (point awards and
// notifications) from a durable outbox. The action's primary write and its
// steps are stored in one transaction; steps then run in order, each exactly
// once, either inline or later from the Relay.
package saga

import (
	"context"
	"encoding/json"

	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AwardPayload is the payload of an award_points step.
type AwardPayload struct {
	UserID string `json:"user_id"`
	Delta  int    `json:"delta"`
}

// NotifyPayload is the payload of a notify step.
type NotifyPayload struct {
	Notification models.NewNotification `json:"notification"`
}

// PointsAwarder applies a point award. Implemented by gamification.Engine.
type PointsAwarder interface {
	AwardPoints(ctx context.Context, userID string, delta int) (*models.Profile, error)
}

// Notifier persists a notification.
type Notifier interface {
	Create(ctx context.Context, input models.NewNotification) (*models.Notification, error)
}

// TxRunner runs fn inside a transaction carried by the context.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Plan collects the ordered steps of one saga.
type Plan struct {
	sagaID string
	action string
	steps  []models.SagaStep
	err    error
}

func NewPlan(action string) *Plan {
	return &Plan{sagaID: uuid.NewString(), action: action}
}

func (p *Plan) ID() string { return p.sagaID }

// AwardPoints appends an award step.
func (p *Plan) AwardPoints(userID string, delta int) *Plan {
	return p.add(models.StepAwardPoints, AwardPayload{UserID: userID, Delta: delta})
}

// Notify appends a notification step.
func (p *Plan) Notify(n models.NewNotification) *Plan {
	return p.add(models.StepNotify, NotifyPayload{Notification: n})
}

func (p *Plan) add(kind models.SagaStepKind, payload interface{}) *Plan {
	if p.err != nil {
		return p
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		p.err = err
		return p
	}
	p.steps = append(p.steps, models.SagaStep{
		SagaID:  p.sagaID,
		Action:  p.action,
		Kind:    kind,
		Seq:     len(p.steps) + 1,
		Payload: datatypes.JSON(raw),
		Status:  models.StepPending,
	})
	return p
}

// Steps returns the planned steps, or the first payload encoding error.
func (p *Plan) Steps() ([]models.SagaStep, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.steps, nil
}
