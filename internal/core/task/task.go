// Package task defines the task domain model for the planning pipeline.
package task

import "time"

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority orders tasks for display. Lower values sort first.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	}
	return "unknown"
}

// ParsePriority converts a CLI/config string into a Priority.
func ParsePriority(s string) (Priority, bool) {
	switch s {
	case "high", "1":
		return PriorityHigh, true
	case "medium", "2":
		return PriorityMedium, true
	case "low", "3":
		return PriorityLow, true
	}
	return 0, false
}

// Task is the sole persistent entity. ID and CreatedAt are assigned by the
// store at insert time and never change afterwards.
type Task struct {
	ID             int64      `json:"id"`
	Description    string     `json:"description"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Priority       Priority   `json:"priority"`
	AssignedAgent  string     `json:"assigned_agent,omitempty"`
	AgentNotes     string     `json:"agent_notes,omitempty"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
}

// Overdue reports whether the task has a due date earlier than now.
func (t Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now)
}

// Draft is the unpersisted intermediate between interpretation and
// scheduling. It is owned by the caller passing it through the pipeline and
// is never stored directly.
type Draft struct {
	Description string
	DueDate     *time.Time
	Priority    Priority
	AgentNotes  string
}
