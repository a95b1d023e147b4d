package repositories

import (
	"context"
	"time"

	"github.com/anonto42/ideahub/backend/internal/models"
	"gorm.io/gorm"
)

// SagaStepRepository persists the outbox of pending side effects
type SagaStepRepository interface {
	CreateSteps(ctx context.Context, steps []models.SagaStep) error
	ClaimStep(ctx context.Context, id string) (bool, error)
	RecordFailure(ctx context.Context, id string, cause error) error
	FailSaga(ctx context.Context, sagaID string, reason string) error
	GetPendingSteps(ctx context.Context, createdBefore time.Time, limit int) ([]models.SagaStep, error)
}

type PostgresSagaStepRepository struct {
	db *gorm.DB
}

func NewPostgresSagaStepRepository(db *gorm.DB) *PostgresSagaStepRepository {
	return &PostgresSagaStepRepository{db: db}
}

func (r *PostgresSagaStepRepository) CreateSteps(ctx context.Context, steps []models.SagaStep) error {
	if len(steps) == 0 {
		return nil
	}
	return translate("create saga steps", conn(ctx, r.db).Create(&steps).Error, "")
}

// ClaimStep flips a pending step to done. It returns false when the step
// was already claimed, which makes re-execution a no-op.
func (r *PostgresSagaStepRepository) ClaimStep(ctx context.Context, id string) (bool, error) {
	res := conn(ctx, r.db).Model(&models.SagaStep{}).
		Where("id = ? AND status = ?", id, models.StepPending).
		Updates(map[string]interface{}{"status": models.StepDone, "last_error": ""})
	if res.Error != nil {
		return false, translate("claim saga step", res.Error, "")
	}
	return res.RowsAffected == 1, nil
}

// RecordFailure bumps the attempt counter of a pending step and keeps the cause
func (r *PostgresSagaStepRepository) RecordFailure(ctx context.Context, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	err := conn(ctx, r.db).Model(&models.SagaStep{}).
		Where("id = ? AND status = ?", id, models.StepPending).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": msg,
		}).Error
	return translate("record saga step failure", err, "")
}

// FailSaga parks every pending step of the saga as failed
func (r *PostgresSagaStepRepository) FailSaga(ctx context.Context, sagaID string, reason string) error {
	err := conn(ctx, r.db).Model(&models.SagaStep{}).
		Where("saga_id = ? AND status = ?", sagaID, models.StepPending).
		Updates(map[string]interface{}{"status": models.StepFailed, "last_error": reason}).Error
	return translate("fail saga", err, "")
}

// GetPendingSteps returns pending steps created before createdBefore, in saga
// and sequence order
func (r *PostgresSagaStepRepository) GetPendingSteps(ctx context.Context, createdBefore time.Time, limit int) ([]models.SagaStep, error) {
	steps := []models.SagaStep{}
	err := conn(ctx, r.db).Where("status = ? AND created_at < ?", models.StepPending, createdBefore).
		Order("created_at, saga_id, seq").
		Limit(limit).
		Find(&steps).Error
	if err != nil {
		return nil, translate("list pending saga steps", err, "")
	}
	return steps, nil
}
