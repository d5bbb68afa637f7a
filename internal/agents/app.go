package agents

import (
	"github.com/mlens/taskpilot/internal/core/task"
	"github.com/rs/zerolog"
)

// App bundles the pipeline agents and the store they share. It is populated
// during CLI startup, after flags are parsed and the database is open.
type App struct {
	Store       task.Store
	Interpreter *Interpreter
	Scheduler   *Scheduler
	Reminder    *Reminder
}

// NewApp wires the pipeline against a store.
func NewApp(store task.Store, window task.ReminderWindow, log zerolog.Logger) *App {
	return &App{
		Store:       store,
		Interpreter: NewInterpreter(store, log),
		Scheduler:   NewScheduler(store, log),
		Reminder:    NewReminder(store, window, log),
	}
}
