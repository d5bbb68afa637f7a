// Package agents implements the task lifecycle pipeline: free-text
// interpretation, scheduling validation, and reminder evaluation. Each agent
// receives its store and logger at construction; there is no shared state.
package agents

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mlens/taskpilot/internal/core/task"
	"github.com/rs/zerolog"
)

var (
	tomorrowRe = regexp.MustCompile(`(?i)tomorrow`)
	weekdayRe  = regexp.MustCompile(`(?i)next\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)`)
	absDateRe  = regexp.MustCompile(`(?i)(by|on)\s+(\d{4}-\d{2}-\d{2})`)
)

// weekday index, monday = 0. Matches the order of names in weekdayRe.
var weekdayIndex = map[string]int{
	"monday": 0, "tuesday": 1, "wednesday": 2, "thursday": 3,
	"friday": 4, "saturday": 5, "sunday": 6,
}

// absDateHour is the default time of day for "by/on YYYY-MM-DD" phrases.
const absDateHour = 17

// Interpreter converts raw free-text input into a task draft, extracting a
// due date from a small set of fixed phrase patterns.
type Interpreter struct {
	store task.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewInterpreter creates an Interpreter backed by the given store.
func NewInterpreter(store task.Store, log zerolog.Logger) *Interpreter {
	return &Interpreter{
		store: store,
		log:   log.With().Str("component", "interpreter").Logger(),
		now:   time.Now,
	}
}

// Interpret turns raw input into a draft. Returns nil for empty or
// whitespace-only input, which signals "nothing to plan" rather than an error.
//
// Date rules run in a fixed order (tomorrow, next-weekday, absolute date);
// each matching rule overwrites the due date inferred by an earlier one and
// strips its own phrase from the description, so with multiple date phrases
// the absolute-date rule wins. Callers relying on precedence in such inputs
// must expect that. An unparseable absolute date is logged and skipped
// without discarding an earlier rule's result.
func (p *Interpreter) Interpret(ctx context.Context, raw string) *task.Draft {
	p.log.Debug().Str("input", raw).Msg("received raw input")

	description := strings.TrimSpace(raw)
	if description == "" {
		p.log.Info().Msg("input is empty, no task planned")
		return nil
	}

	notes := fmt.Sprintf("Planned by Interpreter. Original input: %q", raw)
	if dup := p.findSimilar(ctx, description); dup != nil {
		p.log.Warn().
			Int64("task_id", dup.ID).
			Str("description", dup.Description).
			Msg("similar existing task found, consider reviewing")
		notes += fmt.Sprintf("\nPossible duplicate of task %d: %q.", dup.ID, dup.Description)
	}

	var dueDate *time.Time

	if tomorrowRe.MatchString(description) {
		due := p.now().AddDate(0, 0, 1)
		dueDate = &due
		description = stripPhrase(description, tomorrowRe)
		p.log.Debug().Time("due", due).Msg("inferred due date: tomorrow")
	}

	if m := weekdayRe.FindStringSubmatch(description); m != nil {
		target := weekdayIndex[strings.ToLower(m[1])]
		today := (int(p.now().Weekday()) + 6) % 7 // monday = 0
		daysAhead := (target - today + 7) % 7
		if daysAhead == 0 {
			// "next monday" on a Monday means the following week.
			daysAhead = 7
		}
		due := p.now().AddDate(0, 0, daysAhead)
		dueDate = &due
		description = stripPhrase(description, weekdayRe)
		p.log.Debug().Str("weekday", m[1]).Time("due", due).Msg("inferred due date: next weekday")
	}

	if m := absDateRe.FindStringSubmatch(description); m != nil {
		day, err := time.ParseInLocation("2006-01-02", m[2], time.Local)
		if err != nil {
			p.log.Warn().Str("date", m[2]).Msg("could not parse date, ignoring")
		} else {
			due := time.Date(day.Year(), day.Month(), day.Day(), absDateHour, 0, 0, 0, time.Local)
			dueDate = &due
			description = stripPhrase(description, absDateRe)
			p.log.Debug().Str("date", m[2]).Time("due", due).Msg("inferred due date: absolute")
		}
	}

	draft := &task.Draft{
		Description: description,
		DueDate:     dueDate,
		Priority:    task.PriorityMedium,
		AgentNotes:  notes,
	}

	p.log.Info().
		Str("description", draft.Description).
		Bool("has_due_date", draft.DueDate != nil).
		Msg("planned task")

	return draft
}

// findSimilar returns a non-completed task whose description contains the
// new text, or vice versa, ignoring case. The scan is advisory only: a store
// failure degrades to skipping it.
func (p *Interpreter) findSimilar(ctx context.Context, description string) *task.Task {
	existing, err := p.store.List(ctx, task.StatusAll)
	if err != nil {
		p.log.Warn().Err(err).Msg("duplicate scan skipped")
		return nil
	}

	needle := strings.ToLower(description)
	for i := range existing {
		if existing[i].Status == task.StatusCompleted {
			continue
		}
		have := strings.ToLower(existing[i].Description)
		if strings.Contains(have, needle) || strings.Contains(needle, have) {
			return &existing[i]
		}
	}
	return nil
}

// stripPhrase removes every match of re from s, collapsing the surrounding
// whitespace so neighboring words are not glued together.
func stripPhrase(s string, re *regexp.Regexp) string {
	stripped := re.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(stripped), " ")
}
