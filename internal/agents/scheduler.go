package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/mlens/taskpilot/internal/core/task"
	"github.com/rs/zerolog"
)

// AgentScheduler is recorded as assigned_agent on every task the Scheduler
// commits.
const AgentScheduler = "Scheduler"

// noteTimeFormat is the timestamp layout used in agent notes and log lines.
const noteTimeFormat = "2006-01-02 15:04:05"

// Scheduler validates a draft's due date and commits it to the store.
type Scheduler struct {
	store task.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewScheduler creates a Scheduler backed by the given store.
func NewScheduler(store task.Store, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		store: store,
		log:   log.With().Str("component", "scheduler").Logger(),
		now:   time.Now,
	}
}

// Schedule commits a draft as a pending task and returns its assigned ID.
//
// A due date in the past is discarded with a warning rather than rejecting
// the task; it is scheduled without a deadline. A nil draft returns
// task.ErrEmptyDraft. Store failures are logged and returned wrapped; there
// is no retry.
func (s *Scheduler) Schedule(ctx context.Context, draft *task.Draft) (int64, error) {
	if draft == nil {
		s.log.Warn().Msg("no planned task received, cannot schedule")
		return 0, task.ErrEmptyDraft
	}

	s.log.Debug().Str("description", draft.Description).Msg("received planned task")

	now := s.now()
	dueDate := draft.DueDate
	if dueDate != nil && dueDate.Before(now) {
		s.log.Warn().
			Str("due", dueDate.Format(noteTimeFormat)).
			Msg("suggested due date is in the past, scheduling without one")
		dueDate = nil
	}

	priority := draft.Priority
	if priority == 0 {
		priority = task.PriorityMedium
	}

	t := task.Task{
		Description:   draft.Description,
		Status:        task.StatusPending,
		DueDate:       dueDate,
		Priority:      priority,
		AssignedAgent: AgentScheduler,
		AgentNotes:    draft.AgentNotes + fmt.Sprintf("\nScheduled by Scheduler at %s.", now.Format(noteTimeFormat)),
	}

	id, err := s.store.Create(ctx, t)
	if err != nil {
		s.log.Error().Err(err).Str("description", t.Description).Msg("error scheduling task")
		return 0, fmt.Errorf("schedule task: %w", err)
	}

	s.log.Info().Int64("task_id", id).Str("description", t.Description).Msg("task scheduled and stored")

	return id, nil
}
