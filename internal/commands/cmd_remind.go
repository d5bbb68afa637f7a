package commands

import (
	"context"
	"fmt"

	"github.com/mlens/taskpilot/internal/agents"
	"github.com/urfave/cli/v3"
)

// RemindCmd implements the remind command.
type RemindCmd struct {
	flags *Flags
	app   *agents.App
}

// NewRemindCmd creates the remind command.
func NewRemindCmd(flags *Flags, app *agents.App) *RemindCmd {
	return &RemindCmd{flags: flags, app: app}
}

// Register adds the remind command to the application.
func (cmd *RemindCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "remind",
		Usage:     "Print reminders for tasks nearing or past their due date",
		UsageText: "taskpilot remind",
		Description: `Evaluates reminder eligibility and prints one line per task. Each
printed task is stamped so it stays quiet for the dedupe window
(default 6h). Prints nothing when no task is eligible.`,
		Action: cmd.runRemind,
	})
	return app
}

func (cmd *RemindCmd) runRemind(ctx context.Context, c *cli.Command) error {
	reminders, err := cmd.app.Reminder.Evaluate(ctx)
	if err != nil {
		return fmt.Errorf("evaluate reminders: %w", err)
	}

	for _, line := range reminders {
		fmt.Fprintln(c.Root().Writer, line)
	}

	return nil
}
