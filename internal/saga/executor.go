package saga

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anonto42/ideahub/backend/internal/apperr"
	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/anonto42/ideahub/backend/internal/repositories"
	"go.uber.org/zap"
)

// StepRecorder observes step outcomes. It may be nil.
type StepRecorder interface {
	RecordSagaStep(ctx context.Context, kind string, ok bool)
}

// Executor applies saga steps. A step is claimed and applied in the same
// transaction, so a failed effect leaves the step pending for a retry and a
// successful one can never run twice.
type Executor struct {
	tx          TxRunner
	steps       repositories.SagaStepRepository
	points      PointsAwarder
	notifier    Notifier
	recorder    StepRecorder
	maxAttempts int
	logger      *zap.SugaredLogger
}

func NewExecutor(tx TxRunner, steps repositories.SagaStepRepository, points PointsAwarder, notifier Notifier,
	recorder StepRecorder, maxAttempts int, logger *zap.SugaredLogger) *Executor {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Executor{
		tx:          tx,
		steps:       steps,
		points:      points,
		notifier:    notifier,
		recorder:    recorder,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// RunAll executes steps in order and stops at the first failure. Steps after
// the failed one stay pending.
func (e *Executor) RunAll(ctx context.Context, steps []models.SagaStep) error {
	for _, step := range steps {
		if err := e.Execute(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs a single step. Already claimed steps are a no-op.
func (e *Executor) Execute(ctx context.Context, step models.SagaStep) error {
	err := e.tx.WithinTx(ctx, func(ctx context.Context) error {
		claimed, err := e.steps.ClaimStep(ctx, step.ID)
		if err != nil {
			return err
		}
		if !claimed {
			return nil
		}
		return e.apply(ctx, step)
	})
	if e.recorder != nil {
		e.recorder.RecordSagaStep(ctx, string(step.Kind), err == nil)
	}
	if err == nil {
		return nil
	}

	e.logger.Warnw("saga step failed", "saga_id", step.SagaID, "step_id", step.ID, "kind", step.Kind,
		"attempt", step.Attempts+1, "error", err)
	if recErr := e.steps.RecordFailure(ctx, step.ID, err); recErr != nil {
		e.logger.Errorw("failed to record saga step failure", "step_id", step.ID, "error", recErr)
	}
	if step.Attempts+1 >= e.maxAttempts {
		e.logger.Errorw("saga parked after max attempts", "saga_id", step.SagaID, "action", step.Action)
		if failErr := e.steps.FailSaga(ctx, step.SagaID, err.Error()); failErr != nil {
			e.logger.Errorw("failed to park saga", "saga_id", step.SagaID, "error", failErr)
		}
	}
	return err
}

func (e *Executor) apply(ctx context.Context, step models.SagaStep) error {
	switch step.Kind {
	case models.StepAwardPoints:
		var p AwardPayload
		if err := json.Unmarshal(step.Payload, &p); err != nil {
			return apperr.Validation("run saga step", fmt.Sprintf("malformed award payload: %v", err))
		}
		_, err := e.points.AwardPoints(ctx, p.UserID, p.Delta)
		return err
	case models.StepNotify:
		var p NotifyPayload
		if err := json.Unmarshal(step.Payload, &p); err != nil {
			return apperr.Validation("run saga step", fmt.Sprintf("malformed notify payload: %v", err))
		}
		_, err := e.notifier.Create(ctx, p.Notification)
		return err
	default:
		return apperr.Validation("run saga step", fmt.Sprintf("unknown step kind %q", step.Kind))
	}
}
