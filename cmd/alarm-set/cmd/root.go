package cmd

import (
	"context"
	"os"
	"os/signal"
	"strconv"
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
	// ringtone is the submitted ring_tone.
	ringtone string
	// snooze is the submitted snooze_time in seconds.
	snooze int
	// endpoint overrides the URL derived from the configuration.
	endpoint string
	// callTimeout bounds a single request.
	callTimeout time.Duration
	// attempts limits the number of tries.
	attempts int
	// verbose enables info level logging.
	verbose bool

	// rootCmd represents the base command for submitting alarm settings.
	rootCmd = &cobra.Command{
		Use:   "alarm-set HH:MM [controller-host]",
		Short: "Set the alarm on a controller.",
		Long: `Submits a ring time, a ringtone and a snooze length to the controller's
settings endpoint, the same form the web front end posts.

The controller only accepts settings while no alarm is set; the request is
retried while the endpoint is unreachable. The host defaults to the one in the
configured settings address, or localhost.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if !verbose {
				logger.Quiet(zapcore.WarnLevel)
			}

			var host string
			if len(args) > 1 {
				host = args[1]
			}

			options := &client.Options{
				ConfigPath:  cfgPath,
				Host:        host,
				URL:         endpoint,
				CallTimeout: callTimeout,
				Attempts:    attempts,
			}

			settings := client.Settings{
				RingTime: args[0],
				Ringtone: ringtone,
				Snooze:   strconv.Itoa(snooze),
			}

			return client.RunSet(ctx, options, settings)
		},
	}
)

// Execute runs the alarm-set CLI and exits with non-zero status on error.
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
	flags.StringVarP(&ringtone, "ring-tone", "r", config.DefaultDisplayRingtone, "ringtone file name")
	flags.IntVarP(&snooze, "snooze", "s", config.DefaultSnoozeSeconds, "snooze length in seconds")
	flags.StringVar(&endpoint, "url", "", "settings endpoint URL, overrides host and configuration")
	flags.DurationVarP(&callTimeout, "timeout", "t", client.DefaultCallTimeout, "timeout of a single request")
	flags.IntVarP(&attempts, "attempts", "n", 10, "number of tries, 0 retries until interrupted")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log progress")
}
