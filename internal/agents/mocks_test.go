package agents

import (
	"context"
	"testing"
	"time"

	"github.com/mlens/taskpilot/internal/core/task"
	"github.com/mlens/taskpilot/internal/data/db"
	"github.com/mlens/taskpilot/internal/data/stores"
	"github.com/stretchr/testify/require"
)

// fixedNow is a deterministic "now" for pipeline tests: a Wednesday, far
// enough in the future that inferred due dates never trip the past-date
// guard against the wall clock.
var fixedNow = time.Date(2027, time.March, 3, 10, 30, 0, 0, time.Local)

func newTestStore(t *testing.T) task.Store {
	t.Helper()

	database, err := db.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	return stores.NewTaskStore(database)
}

// stubStore lets tests fail or observe individual store operations. Nil
// function fields delegate to the wrapped store.
type stubStore struct {
	task.Store

	createFn func(ctx context.Context, t task.Task) (int64, error)
	updateFn func(ctx context.Context, id int64, u task.Updates) error
	dueFn    func(ctx context.Context, now time.Time, w task.ReminderWindow) ([]task.Task, error)
	listFn   func(ctx context.Context, status string) ([]task.Task, error)
}

func (s *stubStore) Create(ctx context.Context, t task.Task) (int64, error) {
	if s.createFn != nil {
		return s.createFn(ctx, t)
	}
	return s.Store.Create(ctx, t)
}

func (s *stubStore) Update(ctx context.Context, id int64, u task.Updates) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, u)
	}
	return s.Store.Update(ctx, id, u)
}

func (s *stubStore) DueForReminder(ctx context.Context, now time.Time, w task.ReminderWindow) ([]task.Task, error) {
	if s.dueFn != nil {
		return s.dueFn(ctx, now, w)
	}
	return s.Store.DueForReminder(ctx, now, w)
}

func (s *stubStore) List(ctx context.Context, status string) ([]task.Task, error) {
	if s.listFn != nil {
		return s.listFn(ctx, status)
	}
	return s.Store.List(ctx, status)
}
