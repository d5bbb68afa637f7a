// Package config handles configuration loading and validation for taskpilot.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mlens/taskpilot/internal/core/task"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "6h" or "90m" parse
// directly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}

	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Reminders controls reminder eligibility.
type Reminders struct {
	// DedupeWindow suppresses a task that was already reminded within this
	// long. Default 6h.
	DedupeWindow Duration `yaml:"dedupe_window"`
	// LookAheadWindow selects tasks due within this long of now. Default 24h.
	LookAheadWindow Duration `yaml:"look_ahead_window"`
}

// Config holds the application configuration.
type Config struct {
	Reminders Reminders `yaml:"reminders"`
	DataDir   string    `yaml:"-"` // set by caller, not from config file
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() Config {
	return Config{
		Reminders: Reminders{
			DedupeWindow:    Duration(6 * time.Hour),
			LookAheadWindow: Duration(24 * time.Hour),
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided
// dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Reminders.DedupeWindow == 0 {
		c.Reminders.DedupeWindow = defaults.Reminders.DedupeWindow
	}
	if c.Reminders.LookAheadWindow == 0 {
		c.Reminders.LookAheadWindow = defaults.Reminders.LookAheadWindow
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Reminders.DedupeWindow < 0 {
		return fmt.Errorf("reminders.dedupe_window cannot be negative")
	}

	if c.Reminders.LookAheadWindow < 0 {
		return fmt.Errorf("reminders.look_ahead_window cannot be negative")
	}

	return nil
}

// ReminderWindow converts the reminder settings into the store's query
// window.
func (c *Config) ReminderWindow() task.ReminderWindow {
	return task.ReminderWindow{
		LookAhead: c.Reminders.LookAheadWindow.Std(),
		Dedupe:    c.Reminders.DedupeWindow.Std(),
	}
}
