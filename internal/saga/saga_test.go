package saga

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/ideahub/backend/internal/apperr"
	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memorySteps is an in-memory step store. Its WithinTx restores step state
// when fn fails, like a rolled back transaction.
type memorySteps struct {
	mu    sync.Mutex
	steps map[string]*models.SagaStep
	order []string
}

func newMemorySteps() *memorySteps {
	return &memorySteps{steps: map[string]*models.SagaStep{}}
}

func (m *memorySteps) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	snapshot := map[string]models.SagaStep{}
	for id, s := range m.steps {
		snapshot[id] = *s
	}
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		for id, s := range snapshot {
			restored := s
			m.steps[id] = &restored
		}
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memorySteps) CreateSteps(ctx context.Context, steps []models.SagaStep) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range steps {
		steps[i].ID = steps[i].SagaID + "-" + string(rune('0'+steps[i].Seq))
		steps[i].CreatedAt = time.Now().Add(-time.Hour)
		s := steps[i]
		m.steps[s.ID] = &s
		m.order = append(m.order, s.ID)
	}
	return nil
}

func (m *memorySteps) ClaimStep(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.steps[id]
	if !ok || s.Status != models.StepPending {
		return false, nil
	}
	s.Status = models.StepDone
	return true, nil
}

func (m *memorySteps) RecordFailure(ctx context.Context, id string, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.steps[id]; ok && s.Status == models.StepPending {
		s.Attempts++
		s.LastError = cause.Error()
	}
	return nil
}

func (m *memorySteps) FailSaga(ctx context.Context, sagaID string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.steps {
		if s.SagaID == sagaID && s.Status == models.StepPending {
			s.Status = models.StepFailed
		}
	}
	return nil
}

func (m *memorySteps) GetPendingSteps(ctx context.Context, createdBefore time.Time, limit int) ([]models.SagaStep, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.SagaStep{}
	for _, id := range m.order {
		s := m.steps[id]
		if s.Status == models.StepPending && s.CreatedAt.Before(createdBefore) {
			out = append(out, *s)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memorySteps) status(id string) models.SagaStepStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.steps[id].Status
}

type effects struct {
	mu            sync.Mutex
	log           []string
	awardErr      error
	notifyErr     error
	notifications []models.NewNotification
	awarded       map[string]int
}

func newEffects() *effects { return &effects{awarded: map[string]int{}} }

func (e *effects) AwardPoints(ctx context.Context, userID string, delta int) (*models.Profile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.awardErr != nil {
		return nil, e.awardErr
	}
	e.awarded[userID] += delta
	e.log = append(e.log, "award")
	return &models.Profile{ID: userID, Points: e.awarded[userID]}, nil
}

func (e *effects) Create(ctx context.Context, input models.NewNotification) (*models.Notification, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.notifyErr != nil {
		return nil, e.notifyErr
	}
	e.notifications = append(e.notifications, input)
	e.log = append(e.log, "notify")
	return &models.Notification{UserID: input.UserID, Type: input.Type, Message: input.Message}, nil
}

func planLike(t *testing.T, store *memorySteps) []models.SagaStep {
	t.Helper()
	steps, err := NewPlan("like").
		AwardPoints("owner", 2).
		Notify(models.NewNotification{UserID: "owner", Type: models.NotificationLike, Message: "liker liked your idea \"Solar\""}).
		Steps()
	require.NoError(t, err)
	require.NoError(t, store.CreateSteps(context.Background(), steps))
	return steps
}

func TestPlanOrdersSteps(t *testing.T) {
	plan := NewPlan("comment").AwardPoints("u1", 5).Notify(models.NewNotification{UserID: "u2"})
	steps, err := plan.Steps()

	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, models.StepAwardPoints, steps[0].Kind)
	assert.Equal(t, 1, steps[0].Seq)
	assert.Equal(t, models.StepNotify, steps[1].Kind)
	assert.Equal(t, 2, steps[1].Seq)
	assert.Equal(t, plan.ID(), steps[1].SagaID)
	assert.JSONEq(t, `{"user_id":"u1","delta":5}`, string(steps[0].Payload))
}

func TestRunAllAppliesStepsInOrder(t *testing.T) {
	store := newMemorySteps()
	fx := newEffects()
	exec := NewExecutor(store, store, fx, fx, nil, 3, nil)
	steps := planLike(t, store)

	require.NoError(t, exec.RunAll(context.Background(), steps))

	assert.Equal(t, []string{"award", "notify"}, fx.log)
	assert.Equal(t, 2, fx.awarded["owner"])
	assert.Equal(t, models.StepDone, store.status(steps[0].ID))
	assert.Equal(t, models.StepDone, store.status(steps[1].ID))
}

func TestExecuteIsOncePerStep(t *testing.T) {
	store := newMemorySteps()
	fx := newEffects()
	exec := NewExecutor(store, store, fx, fx, nil, 3, nil)
	steps := planLike(t, store)

	require.NoError(t, exec.RunAll(context.Background(), steps))
	require.NoError(t, exec.RunAll(context.Background(), steps))

	assert.Equal(t, 2, fx.awarded["owner"])
	assert.Len(t, fx.notifications, 1)
}

func TestFailedStepStopsSagaAndStaysPending(t *testing.T) {
	store := newMemorySteps()
	fx := newEffects()
	fx.awardErr = apperr.Persistence("add points", errors.New("connection reset"))
	exec := NewExecutor(store, store, fx, fx, nil, 3, nil)
	steps := planLike(t, store)

	err := exec.RunAll(context.Background(), steps)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrPersistence))
	assert.Empty(t, fx.notifications)
	assert.Equal(t, models.StepPending, store.status(steps[0].ID))
	assert.Equal(t, models.StepPending, store.status(steps[1].ID))
	assert.Equal(t, 1, store.steps[steps[0].ID].Attempts)
}

func TestRelayRetriesPendingSteps(t *testing.T) {
	store := newMemorySteps()
	fx := newEffects()
	fx.notifyErr = errors.New("notifications table locked")
	exec := NewExecutor(store, store, fx, fx, nil, 5, nil)
	steps := planLike(t, store)

	require.Error(t, exec.RunAll(context.Background(), steps))
	assert.Equal(t, 2, fx.awarded["owner"])

	fx.notifyErr = nil
	relay := NewRelay(store, exec, time.Second, time.Minute, 10, nil)
	done, err := relay.ProcessPending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, fx.awarded["owner"])
	assert.Len(t, fx.notifications, 1)
	assert.Equal(t, models.StepDone, store.status(steps[1].ID))
}

func TestRelaySkipsLaterStepsOfFailingSaga(t *testing.T) {
	store := newMemorySteps()
	fx := newEffects()
	fx.awardErr = errors.New("profiles unavailable")
	exec := NewExecutor(store, store, fx, fx, nil, 5, nil)
	steps := planLike(t, store)

	relay := NewRelay(store, exec, time.Second, time.Minute, 10, nil)
	done, err := relay.ProcessPending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, done)
	assert.Empty(t, fx.notifications)
	assert.Equal(t, 0, store.steps[steps[1].ID].Attempts)
}

func TestSagaParkedAfterMaxAttempts(t *testing.T) {
	store := newMemorySteps()
	fx := newEffects()
	fx.awardErr = errors.New("profiles unavailable")
	exec := NewExecutor(store, store, fx, fx, nil, 2, nil)
	steps := planLike(t, store)
	relay := NewRelay(store, exec, time.Second, time.Minute, 10, nil)

	_, _ = relay.ProcessPending(context.Background())
	_, _ = relay.ProcessPending(context.Background())

	assert.Equal(t, models.StepFailed, store.status(steps[0].ID))
	assert.Equal(t, models.StepFailed, store.status(steps[1].ID))

	pending, err := store.GetPendingSteps(context.Background(), time.Now(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRelayLeavesFreshStepsToInlineRun(t *testing.T) {
	store := newMemorySteps()
	fx := newEffects()
	exec := NewExecutor(store, store, fx, fx, nil, 3, nil)
	planLike(t, store)

	relay := NewRelay(store, exec, time.Second, 2*time.Hour, 10, nil)
	done, err := relay.ProcessPending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, done)
	assert.Empty(t, fx.log)
}

func TestRelayRunStopsOnCancel(t *testing.T) {
	store := newMemorySteps()
	fx := newEffects()
	exec := NewExecutor(store, store, fx, fx, nil, 3, nil)
	relay := NewRelay(store, exec, 10*time.Millisecond, 0, 10, nil)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(stopped)
	}()
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}
