package agents

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mlens/taskpilot/internal/core/task"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReminder(t *testing.T, store task.Store, window task.ReminderWindow) *Reminder {
	t.Helper()

	rem := NewReminder(store, window, zerolog.Nop())
	rem.now = func() time.Time { return fixedNow }
	return rem
}

func TestReminderEvaluate(t *testing.T) {
	ctx := context.Background()
	window := task.DefaultReminderWindow()

	t.Run("empty store yields empty list", func(t *testing.T) {
		rem := newTestReminder(t, newTestStore(t), window)

		msgs, err := rem.Evaluate(ctx)
		require.NoError(t, err)
		assert.Empty(t, msgs)
		assert.NotNil(t, msgs)
	})

	t.Run("overdue message counts days and hours", func(t *testing.T) {
		store := newTestStore(t)
		due := fixedNow.Add(-51 * time.Hour)
		id, err := store.Create(ctx, task.Task{Description: "Renew passport", DueDate: &due})
		require.NoError(t, err)

		rem := newTestReminder(t, store, window)

		msgs, err := rem.Evaluate(ctx)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t,
			fmt.Sprintf("Task 'Renew passport' (ID: %d) is OVERDUE by 2 days, 3 hours.", id),
			msgs[0])
	})

	t.Run("imminent message counts down to the due time", func(t *testing.T) {
		store := newTestStore(t)
		due := fixedNow.Add(3*time.Hour + 45*time.Minute) // 14:15 local
		id, err := store.Create(ctx, task.Task{Description: "Board flight", DueDate: &due})
		require.NoError(t, err)

		rem := newTestReminder(t, store, window)

		msgs, err := rem.Evaluate(ctx)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t,
			fmt.Sprintf("Task 'Board flight' (ID: %d) is due in 3 hours, 45 minutes (at 14:15).", id),
			msgs[0])
	})

	t.Run("beyond a day falls back to the date form", func(t *testing.T) {
		store := newTestStore(t)
		due := fixedNow.Add(30 * time.Hour)
		id, err := store.Create(ctx, task.Task{Description: "Submit grant", DueDate: &due})
		require.NoError(t, err)

		wide := task.ReminderWindow{LookAhead: 48 * time.Hour, Dedupe: 6 * time.Hour}
		rem := newTestReminder(t, store, wide)

		msgs, err := rem.Evaluate(ctx)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t,
			fmt.Sprintf("Task 'Submit grant' (ID: %d) is due on %s.", id, due.Format("2006-01-02 at 15:04")),
			msgs[0])
	})

	t.Run("messages follow due date order", func(t *testing.T) {
		store := newTestStore(t)

		lateDue := fixedNow.Add(-time.Hour)
		soonDue := fixedNow.Add(4 * time.Hour)

		_, err := store.Create(ctx, task.Task{Description: "due soon", DueDate: &soonDue})
		require.NoError(t, err)
		_, err = store.Create(ctx, task.Task{Description: "overdue", DueDate: &lateDue})
		require.NoError(t, err)

		rem := newTestReminder(t, store, window)

		msgs, err := rem.Evaluate(ctx)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Contains(t, msgs[0], "overdue")
		assert.Contains(t, msgs[1], "due soon")
	})

	t.Run("second evaluation inside the dedupe window stays quiet", func(t *testing.T) {
		store := newTestStore(t)
		due := fixedNow.Add(-time.Hour)
		id, err := store.Create(ctx, task.Task{Description: "Pay invoice", DueDate: &due})
		require.NoError(t, err)

		rem := newTestReminder(t, store, window)

		first, err := rem.Evaluate(ctx)
		require.NoError(t, err)
		require.Len(t, first, 1)

		stamped, err := store.Get(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, stamped.ReminderSentAt)
		assert.True(t, stamped.ReminderSentAt.Equal(fixedNow))

		second, err := rem.Evaluate(ctx)
		require.NoError(t, err)
		assert.Empty(t, second)

		// The stamp is untouched by the quiet call.
		after, err := store.Get(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, after.ReminderSentAt)
		assert.True(t, after.ReminderSentAt.Equal(*stamped.ReminderSentAt))
	})

	t.Run("a failed stamp does not corrupt state, only re-sends", func(t *testing.T) {
		real := newTestStore(t)

		firstDue := fixedNow.Add(-2 * time.Hour)
		secondDue := fixedNow.Add(time.Hour)

		firstID, err := real.Create(ctx, task.Task{Description: "flaky stamp", DueDate: &firstDue})
		require.NoError(t, err)
		_, err = real.Create(ctx, task.Task{Description: "clean stamp", DueDate: &secondDue})
		require.NoError(t, err)

		store := &stubStore{
			Store: real,
			updateFn: func(ctx context.Context, id int64, u task.Updates) error {
				if id == firstID {
					return assert.AnError
				}
				return real.Update(ctx, id, u)
			},
		}

		rem := newTestReminder(t, store, window)

		msgs, err := rem.Evaluate(ctx)
		require.NoError(t, err)
		// Both reminders still go out in this call.
		require.Len(t, msgs, 2)

		// Only the unstamped task comes back on a retry.
		again, err := rem.Evaluate(ctx)
		require.NoError(t, err)
		require.Len(t, again, 1)
		assert.Contains(t, again[0], "flaky stamp")
	})

	t.Run("completed tasks never remind", func(t *testing.T) {
		store := newTestStore(t)
		due := fixedNow.Add(-time.Hour)
		_, err := store.Create(ctx, task.Task{
			Description: "Old chore",
			Status:      task.StatusCompleted,
			DueDate:     &due,
		})
		require.NoError(t, err)

		rem := newTestReminder(t, store, window)

		msgs, err := rem.Evaluate(ctx)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})
}

func TestFormatReminderFallback(t *testing.T) {
	// The eligibility query excludes tasks without a due date; the
	// formatter still has to cope if one slips through.
	msg := formatReminder(task.Task{ID: 9, Description: "orphan"}, fixedNow)
	assert.Equal(t, "Task 'orphan' (ID: 9) is pending and has no due date.", msg)
}
