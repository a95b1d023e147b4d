package saga

import (
	"context"
	"time"

	"github.com/anonto42/ideahub/backend/internal/repositories"
	"go.uber.org/zap"
)

// Relay retries steps left pending by a failed or interrupted inline run.
type Relay struct {
	steps    repositories.SagaStepRepository
	executor *Executor
	interval time.Duration
	grace    time.Duration
	batch    int
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// NewRelay polls every interval. Steps younger than grace are left to the
// inline run that created them.
func NewRelay(steps repositories.SagaStepRepository, executor *Executor, interval, grace time.Duration, batch int, logger *zap.SugaredLogger) *Relay {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if batch <= 0 {
		batch = 100
	}
	return &Relay{
		steps:    steps,
		executor: executor,
		interval: interval,
		grace:    grace,
		batch:    batch,
		logger:   logger,
		now:      time.Now,
	}
}

// Run polls until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Infow("saga relay started", "interval", r.interval, "batch", r.batch)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("saga relay stopped")
			return
		case <-ticker.C:
			if _, err := r.ProcessPending(ctx); err != nil {
				r.logger.Errorw("saga relay poll failed", "error", err)
			}
		}
	}
}

// ProcessPending runs one batch and returns how many steps completed. Once a
// step fails, later steps of the same saga are skipped until the next poll.
func (r *Relay) ProcessPending(ctx context.Context) (int, error) {
	pending, err := r.steps.GetPendingSteps(ctx, r.now().Add(-r.grace), r.batch)
	if err != nil {
		return 0, err
	}

	blocked := make(map[string]struct{})
	done := 0
	for _, step := range pending {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		if _, ok := blocked[step.SagaID]; ok {
			continue
		}
		if err := r.executor.Execute(ctx, step); err != nil {
			blocked[step.SagaID] = struct{}{}
			continue
		}
		done++
	}
	if done > 0 {
		r.logger.Infow("saga relay completed steps", "count", done)
	}
	return done, nil
}
