package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/teaiter/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify teaiter configuration",
	Long: `View or modify teaiter configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  teaiter config set tui.tick_interval_ms 500
  teaiter config set notes.capacity 32
  teaiter config set notes.overflow drop_oldest
  teaiter config set logging.level debug`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/teaiter/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config file: %s\n\n", configFileInUse())

	fmt.Fprintln(out, "tui:")
	fmt.Fprintf(out, "  tick_interval_ms: %d\n", cfg.TUI.TickIntervalMs)
	fmt.Fprintf(out, "  max_event_lines: %d\n", cfg.TUI.MaxEventLines)

	fmt.Fprintln(out, "watch:")
	fmt.Fprintf(out, "  enabled: %t\n", cfg.Watch.Enabled)
	fmt.Fprintf(out, "  paths: %v\n", cfg.Watch.Paths)

	fmt.Fprintln(out, "notes:")
	fmt.Fprintf(out, "  capacity: %d\n", cfg.Notes.Capacity)
	fmt.Fprintf(out, "  overflow: %s\n", cfg.Notes.Overflow)

	fmt.Fprintln(out, "logging:")
	fmt.Fprintf(out, "  enabled: %t\n", cfg.Logging.Enabled)
	fmt.Fprintf(out, "  level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  dir: %s\n", cfg.Logging.Dir)

	return nil
}

func configFileInUse() string {
	if f := viper.ConfigFileUsed(); f != "" {
		return f
	}
	return "(none, using defaults)"
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if !isValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %s", key)
	}

	viper.Set(key, value)

	// Reject the new value before persisting it
	if _, err := config.Load(); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	path := config.ConfigFile()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}

// isValidConfigKey checks the key against the known config fields
func isValidConfigKey(key string) bool {
	valid := []string{
		"tui.tick_interval_ms",
		"tui.max_event_lines",
		"watch.enabled",
		"watch.paths",
		"notes.capacity",
		"notes.overflow",
		"logging.enabled",
		"logging.level",
		"logging.dir",
	}
	for _, v := range valid {
		if key == v {
			return true
		}
	}
	return false
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.ConfigFile()

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	defaults := config.Default()
	var sb strings.Builder
	sb.WriteString("# teaiter configuration\n\n")
	sb.WriteString("tui:\n")
	sb.WriteString(fmt.Sprintf("  tick_interval_ms: %d\n", defaults.TUI.TickIntervalMs))
	sb.WriteString(fmt.Sprintf("  max_event_lines: %d\n", defaults.TUI.MaxEventLines))
	sb.WriteString("\nwatch:\n")
	sb.WriteString(fmt.Sprintf("  enabled: %t\n", defaults.Watch.Enabled))
	sb.WriteString("  paths: []\n")
	sb.WriteString("\nnotes:\n")
	sb.WriteString(fmt.Sprintf("  capacity: %d\n", defaults.Notes.Capacity))
	sb.WriteString(fmt.Sprintf("  overflow: %s\n", defaults.Notes.Overflow))
	sb.WriteString("\nlogging:\n")
	sb.WriteString(fmt.Sprintf("  enabled: %t\n", defaults.Logging.Enabled))
	sb.WriteString(fmt.Sprintf("  level: %s\n", defaults.Logging.Level))
	sb.WriteString("  dir: \"\"\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}
