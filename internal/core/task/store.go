package task

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a task does not exist.
	ErrNotFound = errors.New("task not found")
	// ErrEmptyDescription is returned when a task is created without a description.
	ErrEmptyDescription = errors.New("task description is empty")
	// ErrEmptyDraft is returned when the scheduler receives nothing to schedule.
	ErrEmptyDraft = errors.New("no draft to schedule")
)

// StatusAll is the List filter value that matches every status.
// An empty filter means the same thing.
const StatusAll = "all"

// Updates is a partial update set for a task. Nil fields are left untouched.
// ClearDueDate removes an existing due date; it takes precedence over DueDate.
// The zero value is a no-op.
type Updates struct {
	Description    *string
	Status         *Status
	Priority       *Priority
	AgentNotes     *string
	DueDate        *time.Time
	ClearDueDate   bool
	ReminderSentAt *time.Time
}

// Empty reports whether applying u would change nothing.
func (u Updates) Empty() bool {
	return u.Description == nil &&
		u.Status == nil &&
		u.Priority == nil &&
		u.AgentNotes == nil &&
		u.DueDate == nil &&
		!u.ClearDueDate &&
		u.ReminderSentAt == nil
}

// ReminderWindow controls reminder eligibility. LookAhead selects tasks due
// within that duration of now (or already overdue); Dedupe suppresses tasks
// reminded more recently than that duration ago.
type ReminderWindow struct {
	LookAhead time.Duration
	Dedupe    time.Duration
}

// DefaultReminderWindow returns the documented defaults: a 24 hour look-ahead
// and a 6 hour dedupe cooldown.
func DefaultReminderWindow() ReminderWindow {
	return ReminderWindow{
		LookAhead: 24 * time.Hour,
		Dedupe:    6 * time.Hour,
	}
}

// Store defines the interface for task persistence. Implementations own all
// connection and session management; callers never see the underlying database.
type Store interface {
	// Create persists a new task and returns its assigned ID.
	// Status defaults to pending and priority to medium when unset;
	// created_at is always populated by the store.
	// Returns ErrEmptyDescription if the description is blank.
	Create(ctx context.Context, t Task) (int64, error)

	// Get returns a single task by ID.
	// Returns ErrNotFound if the task does not exist.
	Get(ctx context.Context, id int64) (Task, error)

	// List returns tasks matching the status filter ("" or StatusAll means
	// all), ordered by due date ascending with absent due dates last, then
	// priority ascending, then created_at ascending. This ordering is a
	// contract: it determines what the user sees first.
	List(ctx context.Context, status string) ([]Task, error)

	// Update applies the non-nil fields of u to the task.
	// An empty Updates is a no-op. Returns ErrNotFound if the task does
	// not exist.
	Update(ctx context.Context, id int64, u Updates) error

	// Delete removes a task. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id int64) error

	// DueForReminder returns non-completed tasks with a due date no later
	// than now+LookAhead whose last reminder (if any) is older than
	// now-Dedupe, ordered by due date ascending.
	DueForReminder(ctx context.Context, now time.Time, w ReminderWindow) ([]Task, error)
}
