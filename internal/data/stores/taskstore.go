// Package stores provides SQLite-backed implementations of the domain store
// interfaces.
package stores

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mlens/taskpilot/internal/core/task"
	"github.com/mlens/taskpilot/internal/data/db"
)

// TaskStore implements task.Store using SQLite.
type TaskStore struct {
	db *db.DB
}

var _ task.Store = (*TaskStore)(nil)

// NewTaskStore creates a new SQLite-backed task store.
func NewTaskStore(db *db.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskColumns = "id, description, status, created_at, due_date, priority, assigned_agent, agent_notes, reminder_sent_at"

// Create persists a new task and returns its assigned ID.
// Populates status, priority, and created_at when unset.
func (s *TaskStore) Create(ctx context.Context, t task.Task) (int64, error) {
	if strings.TrimSpace(t.Description) == "" {
		return 0, task.ErrEmptyDescription
	}

	if t.Status == "" {
		t.Status = task.StatusPending
	}
	if t.Priority == 0 {
		t.Priority = task.PriorityMedium
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	res, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO tasks (description, status, created_at, due_date, priority, assigned_agent, agent_notes, reminder_sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Description,
		string(t.Status),
		t.CreatedAt.UnixNano(),
		toNullTime(t.DueDate),
		int64(t.Priority),
		toNullString(t.AssignedAgent),
		toNullString(t.AgentNotes),
		toNullTime(t.ReminderSentAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted task id: %w", err)
	}

	return id, nil
}

// Get returns a single task by ID. Returns task.ErrNotFound if absent.
func (s *TaskStore) Get(ctx context.Context, id int64) (task.Task, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)

	t, err := scanTask(row)
	if IsNotFoundError(err) {
		return task.Task{}, task.ErrNotFound
	}
	if err != nil {
		return task.Task{}, fmt.Errorf("get task: %w", err)
	}

	return t, nil
}

// List returns tasks matching the status filter, ordered by due date
// ascending with absent due dates last, then priority, then created_at.
func (s *TaskStore) List(ctx context.Context, status string) ([]task.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks"
	var args []any

	if status != "" && status != task.StatusAll {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY due_date IS NULL, due_date ASC, priority ASC, created_at ASC"

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectTasks(rows)
}

// Update applies the non-nil fields of u. An empty update set is a no-op.
// Returns task.ErrNotFound when the ID does not exist.
func (s *TaskStore) Update(ctx context.Context, id int64, u task.Updates) error {
	if u.Empty() {
		return nil
	}

	var sets []string
	var args []any

	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*u.Status))
	}
	if u.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, int64(*u.Priority))
	}
	if u.AgentNotes != nil {
		sets = append(sets, "agent_notes = ?")
		args = append(args, *u.AgentNotes)
	}
	switch {
	case u.ClearDueDate:
		sets = append(sets, "due_date = NULL")
	case u.DueDate != nil:
		sets = append(sets, "due_date = ?")
		args = append(args, u.DueDate.UnixNano())
	}
	if u.ReminderSentAt != nil {
		sets = append(sets, "reminder_sent_at = ?")
		args = append(args, u.ReminderSentAt.UnixNano())
	}

	args = append(args, id)
	res, err := s.db.Conn().ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task rows affected: %w", err)
	}
	if affected == 0 {
		return task.ErrNotFound
	}

	return nil
}

// Delete removes a task. Deleting a missing ID is not an error.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Conn().ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// DueForReminder returns reminder-eligible tasks ordered by due date.
// Eligible means not completed, due within the look-ahead window (or already
// overdue), and not reminded within the dedupe window.
func (s *TaskStore) DueForReminder(ctx context.Context, now time.Time, w task.ReminderWindow) ([]task.Task, error) {
	horizon := now.Add(w.LookAhead).UnixNano()
	cooldown := now.Add(-w.Dedupe).UnixNano()

	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE status != ?
		AND due_date IS NOT NULL
		AND due_date <= ?
		AND (reminder_sent_at IS NULL OR reminder_sent_at < ?)
		ORDER BY due_date ASC`,
		string(task.StatusCompleted), horizon, cooldown)
	if err != nil {
		return nil, fmt.Errorf("query tasks due for reminder: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectTasks(rows)
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (task.Task, error) {
	var (
		t              task.Task
		status         string
		createdAt      int64
		dueDate        sql.NullInt64
		priority       int64
		assignedAgent  sql.NullString
		agentNotes     sql.NullString
		reminderSentAt sql.NullInt64
	)

	err := row.Scan(&t.ID, &t.Description, &status, &createdAt, &dueDate,
		&priority, &assignedAgent, &agentNotes, &reminderSentAt)
	if err != nil {
		return task.Task{}, err
	}

	t.Status = task.Status(status)
	t.CreatedAt = time.Unix(0, createdAt)
	t.DueDate = fromNullTime(dueDate)
	t.Priority = task.Priority(priority)
	t.AssignedAgent = assignedAgent.String
	t.AgentNotes = agentNotes.String
	t.ReminderSentAt = fromNullTime(reminderSentAt)

	return t, nil
}

func collectTasks(rows *sql.Rows) ([]task.Task, error) {
	tasks := make([]task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task rows: %w", err)
	}
	return tasks, nil
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toNullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func fromNullTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(0, v.Int64)
	return &t
}
