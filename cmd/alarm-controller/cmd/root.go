package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/service/controller"
	"github.com/oshokin/alarm-clock/internal/version"
)

var (
	// configPath to the configuration file.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string
	// healthAddress overrides the configured health endpoint.
	healthAddress string

	// rootCmd represents the base command for running the alarm scheduler.
	rootCmd = &cobra.Command{
		Use:   "alarm-controller",
		Short: "Schedule and sound the alarm.",
		Long: `Runs the alarm scheduler.

While idle, the controller accepts settings on the settings endpoint and
watches the display request file. Once an alarm is set it counts down to the
ring time, plays the ringtone, and honours snooze and stop from the buttons and
the stop endpoint. Status is published to the display through the controller
status file. Settings are read from YAML, or TOML when the file ends in .toml;
a missing file means defaults.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &controller.Options{
				ConfigPath:    configPath,
				SetupLogger:   true,
				LogLevel:      logLevel,
				HealthAddress: healthAddress,
			}

			return controller.Run(ctx, options)
		},
	}
)

// Execute runs the alarm-controller CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "override the configured log level")
	rootCmd.Flags().StringVar(&healthAddress, "health-addr", "", "serve gRPC health checks on this address")

	rootCmd.AddCommand(healthCmd)
}
