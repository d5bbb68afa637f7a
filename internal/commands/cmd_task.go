package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mlens/taskpilot/internal/agents"
	"github.com/mlens/taskpilot/internal/core/task"
	"github.com/mlens/taskpilot/pkg/iojson"
	"github.com/urfave/cli/v3"
)

// TaskCmd implements the task management commands.
type TaskCmd struct {
	flags *Flags
	app   *agents.App

	// add flags
	addDue string

	// list flags
	listStatus string
	listJSON   bool

	// update flags
	updateStatus   string
	updatePriority string
	updateDue      string
	updateClearDue bool
}

// NewTaskCmd creates the task command group.
func NewTaskCmd(flags *Flags, app *agents.App) *TaskCmd {
	return &TaskCmd{flags: flags, app: app}
}

// Register adds the task commands to the application.
func (cmd *TaskCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		cmd.addCmd(),
		cmd.listCmd(),
		cmd.showCmd(),
		cmd.updateCmd(),
		cmd.completeCmd(),
		cmd.deleteCmd(),
	)
	return app
}

func (cmd *TaskCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Plan and schedule a task from free text",
		UsageText: "taskpilot add [--due <when>] <text...>",
		Description: `Runs the text through the planning pipeline. Date phrases in the text
set the due date and are removed from the stored description.

Examples:
  taskpilot add Buy milk tomorrow
  taskpilot add Finish report next friday
  taskpilot add Call mom on 2026-12-25
  taskpilot add --due "2026-09-01 09:00" Prepare kickoff notes`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "due",
				Usage:       "override the inferred due date (YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")",
				Destination: &cmd.addDue,
			},
		},
		Action: cmd.runAdd,
	}
}

func (cmd *TaskCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List tasks",
		UsageText: "taskpilot list [--status <status>] [--json]",
		Description: `Lists tasks ordered by due date (tasks without one last), then
priority, then creation time.

Examples:
  taskpilot list
  taskpilot list --status pending
  taskpilot list --json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "filter by status (pending, in_progress, completed)",
				Destination: &cmd.listStatus,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit tasks as JSON lines",
				Destination: &cmd.listJSON,
			},
		},
		Action: cmd.runList,
	}
}

func (cmd *TaskCmd) showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a single task",
		UsageText: "taskpilot show <id>",
		Action:    cmd.runShow,
	}
}

func (cmd *TaskCmd) updateCmd() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update fields of a task",
		UsageText: "taskpilot update <id> [--status s] [--priority p] [--due <when>|--clear-due]",
		Description: `Applies partial updates; fields not named are untouched.

Examples:
  taskpilot update 3 --status in_progress
  taskpilot update 3 --priority high --due 2026-10-01
  taskpilot update 3 --clear-due`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "status",
				Usage:       "new status (pending, in_progress, completed)",
				Destination: &cmd.updateStatus,
			},
			&cli.StringFlag{
				Name:        "priority",
				Usage:       "new priority (high, medium, low)",
				Destination: &cmd.updatePriority,
			},
			&cli.StringFlag{
				Name:        "due",
				Usage:       "new due date (YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")",
				Destination: &cmd.updateDue,
			},
			&cli.BoolFlag{
				Name:        "clear-due",
				Usage:       "remove the due date",
				Destination: &cmd.updateClearDue,
			},
		},
		Action: cmd.runUpdate,
	}
}

func (cmd *TaskCmd) completeCmd() *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Aliases:   []string{"done"},
		Usage:     "Mark a task as completed",
		UsageText: "taskpilot complete <id>",
		Action:    cmd.runComplete,
	}
}

func (cmd *TaskCmd) deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a task",
		UsageText: "taskpilot delete <id>",
		Action:    cmd.runDelete,
	}
}

func (cmd *TaskCmd) runAdd(ctx context.Context, c *cli.Command) error {
	text := strings.Join(c.Args().Slice(), " ")

	draft := cmd.app.Interpreter.Interpret(ctx, text)
	if draft == nil {
		fmt.Fprintln(c.Root().Writer, "could not plan task")
		return nil
	}

	if cmd.addDue != "" {
		due, err := parseDue(cmd.addDue)
		if err != nil {
			return err
		}
		draft.DueDate = &due
	}

	id, err := cmd.app.Scheduler.Schedule(ctx, draft)
	if err != nil {
		fmt.Fprintln(c.Root().Writer, "could not schedule task")
		return nil
	}

	fmt.Fprintf(c.Root().Writer, "scheduled task %d: %s\n", id, draft.Description)
	return nil
}

func (cmd *TaskCmd) runList(ctx context.Context, c *cli.Command) error {
	if cmd.listStatus != "" && cmd.listStatus != task.StatusAll {
		if !task.Status(cmd.listStatus).Valid() {
			return fmt.Errorf("invalid status %q: must be one of pending, in_progress, completed", cmd.listStatus)
		}
	}

	tasks, err := cmd.app.Store.List(ctx, cmd.listStatus)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	for _, t := range tasks {
		if cmd.listJSON {
			if err := iojson.WriteLine(c.Root().Writer, t); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintln(c.Root().Writer, formatTaskLine(t))
	}

	return nil
}

func (cmd *TaskCmd) runShow(ctx context.Context, c *cli.Command) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	t, err := cmd.app.Store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("show task: %w", err)
	}

	return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, t)
}

func (cmd *TaskCmd) runUpdate(ctx context.Context, c *cli.Command) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var u task.Updates

	if cmd.updateStatus != "" {
		status := task.Status(cmd.updateStatus)
		if !status.Valid() {
			return fmt.Errorf("invalid status %q: must be one of pending, in_progress, completed", cmd.updateStatus)
		}
		u.Status = &status
	}
	if cmd.updatePriority != "" {
		priority, ok := task.ParsePriority(cmd.updatePriority)
		if !ok {
			return fmt.Errorf("invalid priority %q: must be one of high, medium, low", cmd.updatePriority)
		}
		u.Priority = &priority
	}
	switch {
	case cmd.updateClearDue:
		u.ClearDueDate = true
	case cmd.updateDue != "":
		due, err := parseDue(cmd.updateDue)
		if err != nil {
			return err
		}
		u.DueDate = &due
	}

	if u.Empty() {
		return fmt.Errorf("nothing to update: pass at least one of --status, --priority, --due, --clear-due")
	}

	if err := cmd.app.Store.Update(ctx, id, u); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	return nil
}

func (cmd *TaskCmd) runComplete(ctx context.Context, c *cli.Command) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	status := task.StatusCompleted
	if err := cmd.app.Store.Update(ctx, id, task.Updates{Status: &status}); err != nil {
		return fmt.Errorf("complete task: %w", err)
	}

	return nil
}

func (cmd *TaskCmd) runDelete(ctx context.Context, c *cli.Command) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := cmd.app.Store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	return nil
}

func taskID(c *cli.Command) (int64, error) {
	arg := c.Args().First()
	if arg == "" {
		return 0, fmt.Errorf("task id argument is required")
	}

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}

	return id, nil
}

// parseDue accepts "YYYY-MM-DD HH:MM" or a bare date, which defaults to
// 17:00 to match the planner's absolute-date rule.
func parseDue(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return t, nil
	}

	day, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q: want YYYY-MM-DD or \"YYYY-MM-DD HH:MM\"", s)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), 17, 0, 0, 0, time.Local), nil
}

func formatTaskLine(t task.Task) string {
	due := "no due date"
	if t.DueDate != nil {
		due = "due " + t.DueDate.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("[%d] %-11s %-6s %s (%s)", t.ID, t.Status, t.Priority, t.Description, due)
}
