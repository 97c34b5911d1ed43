package cmd

import (
	"fmt"

	"github.com/Iron-Ham/teaiter/internal/config"
	"github.com/Iron-Ham/teaiter/internal/logging"
	"github.com/Iron-Ham/teaiter/internal/tui"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the demo dashboard",
	Long: `Run the demo dashboard: a clock stream, a push-driven note log, and
an optional file event panel, all bound to the render lifecycle.`,
	RunE: runDemo,
}

var demoWatchPaths []string

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringSliceVarP(&demoWatchPaths, "watch", "w", nil, "paths to watch for file events")
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(demoWatchPaths) > 0 {
		cfg.Watch.Enabled = true
		cfg.Watch.Paths = demoWatchPaths
	}

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		dir := cfg.Logging.Dir
		if dir == "" {
			dir = config.ConfigDir()
		}
		logger, err = logging.New(dir, cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logger.Close()
	}

	app := tui.New(cfg, logger)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
