package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/service/client"
	"github.com/oshokin/alarm-clock/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// endpoint overrides the URL derived from the configuration.
	endpoint string
	// callTimeout bounds a single request.
	callTimeout time.Duration
	// attempts limits the number of tries.
	attempts int
	// verbose enables info level logging.
	verbose bool

	// rootCmd represents the base command for stopping the alarm.
	rootCmd = &cobra.Command{
		Use:   "alarm-stop [controller-host]",
		Short: "Stop a set or ringing alarm.",
		Long: `Sends the configured stop command to the controller's stop endpoint.

The stop endpoint only listens while an alarm is set; the request is retried
while it is unreachable. The host defaults to the one in the configured stop
address, or localhost.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if !verbose {
				logger.Quiet(zapcore.WarnLevel)
			}

			var host string
			if len(args) > 0 {
				host = args[0]
			}

			return client.RunStop(ctx, &client.Options{
				ConfigPath:  cfgPath,
				Host:        host,
				URL:         endpoint,
				CallTimeout: callTimeout,
				Attempts:    attempts,
			})
		},
	}
)

// Execute runs the alarm-stop CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVar(&endpoint, "url", "", "stop endpoint URL, overrides host and configuration")
	flags.DurationVarP(&callTimeout, "timeout", "t", client.DefaultCallTimeout, "timeout of a single request")
	flags.IntVarP(&attempts, "attempts", "n", 10, "number of tries, 0 retries until interrupted")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log progress")
}
