package agents

import (
	"context"
	"testing"
	"time"

	"github.com/mlens/taskpilot/internal/core/task"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerSchedule(t *testing.T) {
	ctx := context.Background()

	t.Run("nil draft cannot be scheduled", func(t *testing.T) {
		sched := NewScheduler(newTestStore(t), zerolog.Nop())

		_, err := sched.Schedule(ctx, nil)
		assert.ErrorIs(t, err, task.ErrEmptyDraft)
	})

	t.Run("commits draft with defaults and audit note", func(t *testing.T) {
		store := newTestStore(t)
		sched := NewScheduler(store, zerolog.Nop())
		sched.now = func() time.Time { return fixedNow }

		due := fixedNow.Add(48 * time.Hour)
		id, err := sched.Schedule(ctx, &task.Draft{
			Description: "Review contract",
			DueDate:     &due,
			AgentNotes:  "Planned by Interpreter.",
		})
		require.NoError(t, err)

		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, task.StatusPending, got.Status)
		assert.Equal(t, task.PriorityMedium, got.Priority)
		assert.Equal(t, "Scheduler", got.AssignedAgent)
		require.NotNil(t, got.DueDate)
		assert.True(t, got.DueDate.Equal(due))
		assert.Contains(t, got.AgentNotes, "Planned by Interpreter.")
		assert.Contains(t, got.AgentNotes, "Scheduled by Scheduler at")
	})

	t.Run("past due date is cleared, task still scheduled", func(t *testing.T) {
		store := newTestStore(t)
		sched := NewScheduler(store, zerolog.Nop())
		sched.now = func() time.Time { return fixedNow }

		yesterday := fixedNow.AddDate(0, 0, -1)
		id, err := sched.Schedule(ctx, &task.Draft{
			Description: "Missed deadline",
			DueDate:     &yesterday,
		})
		require.NoError(t, err)

		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got.DueDate)
		assert.Equal(t, task.StatusPending, got.Status)
	})

	t.Run("draft priority is preserved", func(t *testing.T) {
		store := newTestStore(t)
		sched := NewScheduler(store, zerolog.Nop())

		id, err := sched.Schedule(ctx, &task.Draft{
			Description: "Urgent fix",
			Priority:    task.PriorityHigh,
		})
		require.NoError(t, err)

		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, task.PriorityHigh, got.Priority)
	})

	t.Run("store failure surfaces as an error, not a panic", func(t *testing.T) {
		store := &stubStore{
			createFn: func(context.Context, task.Task) (int64, error) {
				return 0, assert.AnError
			},
		}
		sched := NewScheduler(store, zerolog.Nop())

		_, err := sched.Schedule(ctx, &task.Draft{Description: "Doomed"})
		assert.ErrorIs(t, err, assert.AnError)
	})
}
