package gamification

import (
	"context"
	"fmt"

	"github.com/anonto42/ideahub/backend/internal/apperr"
	"github.com/anonto42/ideahub/backend/internal/models"
	"go.uber.org/zap"
)

// ProfileStore applies a point delta and the matching level in a single
// atomic write and returns the updated row.
type ProfileStore interface {
	AddPoints(ctx context.Context, userID string, delta int) (*models.Profile, error)
}

// Recorder receives point award observations. It may be nil.
type Recorder interface {
	RecordPointsAwarded(ctx context.Context, delta int, level models.Level)
}

// Engine awards points. It is not idempotent: every call accumulates.
type Engine struct {
	store    ProfileStore
	recorder Recorder
	logger   *zap.SugaredLogger
}

func NewEngine(store ProfileStore, recorder Recorder, logger *zap.SugaredLogger) *Engine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Engine{store: store, recorder: recorder, logger: logger}
}

// AwardPoints adds delta to the user's points and recomputes the level.
// Level changes are silent.
func (e *Engine) AwardPoints(ctx context.Context, userID string, delta int) (*models.Profile, error) {
	if userID == "" {
		return nil, apperr.Validation("award points", "User ID is required")
	}
	if delta < 0 {
		return nil, apperr.Validation("award points", fmt.Sprintf("Point delta must not be negative, got %d", delta))
	}

	profile, err := e.store.AddPoints(ctx, userID, delta)
	if err != nil {
		return nil, err
	}

	e.logger.Debugw("points awarded", "user_id", userID, "delta", delta, "points", profile.Points, "level", profile.Level)
	if e.recorder != nil {
		e.recorder.RecordPointsAwarded(ctx, delta, profile.Level)
	}
	return profile, nil
}
