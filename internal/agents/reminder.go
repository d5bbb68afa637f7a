package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/mlens/taskpilot/internal/core/task"
	"github.com/rs/zerolog"
)

// Reminder surfaces human-readable reminders for tasks nearing or past their
// due date and records that each one was notified.
type Reminder struct {
	store  task.Store
	log    zerolog.Logger
	window task.ReminderWindow
	now    func() time.Time
}

// NewReminder creates a Reminder using the given eligibility window.
func NewReminder(store task.Store, window task.ReminderWindow, log zerolog.Logger) *Reminder {
	return &Reminder{
		store:  store,
		log:    log.With().Str("component", "reminder").Logger(),
		window: window,
		now:    time.Now,
	}
}

// Evaluate returns one formatted reminder per eligible task, ordered by due
// date, and stamps each task's reminder_sent_at so repeat calls within the
// dedupe window stay quiet.
//
// The read and the per-task writes are separate statements; a crash in
// between re-sends at most the unstamped reminders on the next call
// (at-least-once semantics).
func (r *Reminder) Evaluate(ctx context.Context) ([]string, error) {
	r.log.Debug().Msg("checking for tasks needing reminders")

	now := r.now()
	due, err := r.store.DueForReminder(ctx, now, r.window)
	if err != nil {
		return nil, fmt.Errorf("query tasks for reminder: %w", err)
	}

	if len(due) == 0 {
		r.log.Debug().Msg("no tasks currently need reminders")
		return []string{}, nil
	}

	messages := make([]string, 0, len(due))
	for _, t := range due {
		msg := formatReminder(t, now)
		messages = append(messages, msg)
		r.log.Info().Int64("task_id", t.ID).Msg(msg)

		sentAt := now
		if err := r.store.Update(ctx, t.ID, task.Updates{ReminderSentAt: &sentAt}); err != nil {
			// The reminder is already in the output; a failed stamp only
			// means it may fire again on the next evaluation.
			r.log.Warn().Err(err).Int64("task_id", t.ID).Msg("could not record reminder timestamp")
		}
	}

	return messages, nil
}

// formatReminder renders exactly one message for a task, keyed off how far
// its due date is from now.
func formatReminder(t task.Task, now time.Time) string {
	if t.DueDate == nil {
		// The eligibility query excludes this case; kept as a fallback.
		return fmt.Sprintf("Task '%s' (ID: %d) is pending and has no due date.", t.Description, t.ID)
	}

	due := *t.DueDate
	if due.Before(now) {
		overdue := now.Sub(due)
		days := int(overdue.Hours()) / 24
		hours := int(overdue.Hours()) % 24
		return fmt.Sprintf("Task '%s' (ID: %d) is OVERDUE by %d days, %d hours.",
			t.Description, t.ID, days, hours)
	}

	until := due.Sub(now)
	if until < 24*time.Hour {
		hours := int(until.Hours())
		minutes := int(until.Minutes()) % 60
		return fmt.Sprintf("Task '%s' (ID: %d) is due in %d hours, %d minutes (at %s).",
			t.Description, t.ID, hours, minutes, due.Format("15:04"))
	}

	return fmt.Sprintf("Task '%s' (ID: %d) is due on %s.",
		t.Description, t.ID, due.Format("2006-01-02 at 15:04"))
}
