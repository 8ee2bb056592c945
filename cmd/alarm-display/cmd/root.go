package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/service/display"
	"github.com/oshokin/alarm-clock/internal/version"
)

var (
	// configPath to the configuration file.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string
	// screen overrides the configured screen back-end.
	screen string

	// rootCmd represents the base command for running the display.
	rootCmd = &cobra.Command{
		Use:   "alarm-display",
		Short: "Show the alarm status and set the alarm from the buttons.",
		Long: `Runs the display process.

The display shows the day, the time and the alarm status read from the
controller status file. Pressing menu opens the alarm time editor; confirming
writes the chosen time to the display request file for the controller to pick
up. With --screen tui the LCD and its buttons are simulated in the terminal.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &display.Options{
				ConfigPath:  configPath,
				SetupLogger: true,
				LogLevel:    logLevel,
				Screen:      screen,
			}

			return display.Run(ctx, options)
		},
	}
)

// Execute runs the alarm-display CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "override the configured log level")
	rootCmd.Flags().StringVar(&screen, "screen", "", `screen back-end: "log" or "tui"`)
}
