package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete teaiter demo configuration
type Config struct {
	TUI     TUIConfig     `mapstructure:"tui"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Notes   NotesConfig   `mapstructure:"notes"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// TickIntervalMs is how often the clock stream emits (in milliseconds)
	TickIntervalMs int `mapstructure:"tick_interval_ms"`
	// MaxEventLines limits how many file events to display (default: 5)
	MaxEventLines int `mapstructure:"max_event_lines"`
}

// WatchConfig controls the file event stream
type WatchConfig struct {
	// Enabled turns the file watcher panel on or off (default: false)
	Enabled bool `mapstructure:"enabled"`
	// Paths are the directories or files to watch for changes
	Paths []string `mapstructure:"paths"`
}

// NotesConfig controls the note channel backing the notes panel
type NotesConfig struct {
	// Capacity bounds the note buffer, 0 = unbounded
	Capacity int `mapstructure:"capacity"`
	// Overflow is the policy when the buffer is full: "block", "drop_oldest",
	// or "drop_newest". Ignored when capacity is 0.
	Overflow string `mapstructure:"overflow"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled turns logging on/off
	Enabled bool `mapstructure:"enabled"`
	// Level is the minimum log level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Dir is the directory for the log file (default: "" uses ConfigDir)
	Dir string `mapstructure:"dir"`
}

// Default returns a Config with all default values set
func Default() *Config {
	return &Config{
		TUI: TUIConfig{
			TickIntervalMs: 1000,
			MaxEventLines:  5,
		},
		Watch: WatchConfig{
			Enabled: false,
			Paths:   []string{},
		},
		Notes: NotesConfig{
			Capacity: 0, // Unbounded by default
			Overflow: "block",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     "",
		},
	}
}

// TickInterval returns the clock tick interval as a time.Duration
func (c *TUIConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// TUI defaults
	viper.SetDefault("tui.tick_interval_ms", defaults.TUI.TickIntervalMs)
	viper.SetDefault("tui.max_event_lines", defaults.TUI.MaxEventLines)

	// Watch defaults
	viper.SetDefault("watch.enabled", defaults.Watch.Enabled)
	viper.SetDefault("watch.paths", defaults.Watch.Paths)

	// Notes defaults
	viper.SetDefault("notes.capacity", defaults.Notes.Capacity)
	viper.SetDefault("notes.overflow", defaults.Notes.Overflow)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "teaiter")
	}
	// Fall back to ~/.config/teaiter
	home, err := os.UserHomeDir()
	if err != nil {
		return ".teaiter"
	}
	return filepath.Join(home, ".config", "teaiter")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
