package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "tui.tick_interval_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidOverflowPolicies returns the list of valid note overflow policies
func ValidOverflowPolicies() []string {
	return []string{"block", "drop_oldest", "drop_newest"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateWatch()...)
	errors = append(errors, c.validateNotes()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.TickIntervalMs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "tui.tick_interval_ms",
			Value:   c.TUI.TickIntervalMs,
			Message: "must be positive",
		})
	}
	if c.TUI.MaxEventLines < 1 {
		errors = append(errors, ValidationError{
			Field:   "tui.max_event_lines",
			Value:   c.TUI.MaxEventLines,
			Message: "must be at least 1",
		})
	}

	return errors
}

// validateWatch validates the WatchConfig
func (c *Config) validateWatch() []ValidationError {
	var errors []ValidationError

	if !c.Watch.Enabled {
		return errors
	}

	if len(c.Watch.Paths) == 0 {
		errors = append(errors, ValidationError{
			Field:   "watch.paths",
			Value:   c.Watch.Paths,
			Message: "at least one path is required when watch is enabled",
		})
	}
	for _, p := range c.Watch.Paths {
		if _, err := os.Stat(p); err != nil {
			errors = append(errors, ValidationError{
				Field:   "watch.paths",
				Value:   p,
				Message: "path does not exist",
			})
		}
	}

	return errors
}

// validateNotes validates the NotesConfig
func (c *Config) validateNotes() []ValidationError {
	var errors []ValidationError

	if c.Notes.Capacity < 0 {
		errors = append(errors, ValidationError{
			Field:   "notes.capacity",
			Value:   c.Notes.Capacity,
			Message: "must not be negative",
		})
	}
	if c.Notes.Overflow != "" && !slices.Contains(ValidOverflowPolicies(), c.Notes.Overflow) {
		errors = append(errors, ValidationError{
			Field:   "notes.overflow",
			Value:   c.Notes.Overflow,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidOverflowPolicies(), ", ")),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
