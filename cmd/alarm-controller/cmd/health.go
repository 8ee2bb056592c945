package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/api/grpc/health"
	"github.com/oshokin/alarm-clock/internal/config"
)

// errNoHealthAddress is returned when neither an argument nor the config names the endpoint.
var errNoHealthAddress = errors.New("no health address given or configured")

var (
	// probeService is the health service to check.
	probeService string
	// probeTimeout bounds the check.
	probeTimeout time.Duration

	healthCmd = &cobra.Command{
		Use:   "health [address]",
		Short: "Probe a running controller.",
		Long: `Asks the controller's gRPC health endpoint for its status and prints the
response as JSON. With --service alarm.Scheduler the status is SERVING only
while an alarm is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := probeAddress(args)
			if err != nil {
				return err
			}

			resp, err := health.Check(context.Background(), address, probeService, probeTimeout)
			if err != nil {
				return err
			}

			out, err := health.Format(resp)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)

			return nil
		},
	}
)

// probeAddress uses the argument or falls back to the configured health address.
func probeAddress(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	cfg, _, err := config.LoadOrDefault(configPath)
	if err != nil {
		return "", fmt.Errorf("load settings: %w", err)
	}

	if cfg.Controller.HealthAddress == "" {
		return "", errNoHealthAddress
	}

	return cfg.Controller.HealthAddress, nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	healthCmd.Flags().StringVarP(&probeService, "service", "s", "", "health service name, empty for the whole controller")
	healthCmd.Flags().DurationVarP(&probeTimeout, "timeout", "t", 3*time.Second, "probe timeout")
}
