package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// DefaultPushInterval is the delay between two attempts.
const DefaultPushInterval = time.Second

// Options configures alarm-set and alarm-stop.
type Options struct {
	// ConfigPath to the settings file; missing files mean defaults.
	ConfigPath string
	// Host is the controller host. Empty uses the host of the configured
	// listen address, or localhost.
	Host string
	// URL overrides the endpoint URL derived from the configuration.
	URL string
	// CallTimeout bounds a single request.
	CallTimeout time.Duration
	// Attempts limits the number of tries; zero retries until ctx is done.
	Attempts int
	// PushInterval separates two tries.
	PushInterval time.Duration
}

// RunSet submits settings to the controller's intake service, retrying while
// it is unreachable.
func RunSet(ctx context.Context, opts *Options, s Settings) error {
	ctx = logger.WithName(ctx, "alarm-set")

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	c, err := opts.client(cfg.Controller.SettingsAddress, cfg.Controller.SettingsEndpoint)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Submitting settings",
		"endpoint", c.Endpoint(),
		"ring_time", s.RingTime,
		"ring_tone", s.Ringtone,
		"snooze_time", s.Snooze,
	)

	return push(ctx, opts, func(ctx context.Context) error {
		_, err := c.SubmitSettings(ctx, s)

		return err
	})
}

// RunStop sends the configured stop command, retrying while the stop service
// is unreachable. The service only listens while an alarm is set.
func RunStop(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarm-stop")

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	c, err := opts.client(cfg.Controller.StopAddress, cfg.Controller.StopEndpoint)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Sending stop command", "endpoint", c.Endpoint())

	return push(ctx, opts, func(ctx context.Context) error {
		_, err := c.Stop(ctx, cfg.Controller.StopCommand)

		return err
	})
}

func loadConfig(opts *Options) (*config.Config, error) {
	cfg, _, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	return cfg, nil
}

func (o *Options) client(listenAddress, path string) (*Client, error) {
	endpoint := o.URL
	if endpoint == "" {
		var err error

		endpoint, err = EndpointURL(o.Host, listenAddress, path)
		if err != nil {
			return nil, err
		}
	}

	return New(endpoint, WithCallTimeout(o.CallTimeout))
}

// push calls attempt until it succeeds, the service rejects the request, the
// attempts run out or ctx is done.
func push(ctx context.Context, opts *Options, attempt func(context.Context) error) error {
	interval := opts.PushInterval
	if interval <= 0 {
		interval = DefaultPushInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for try := 1; ; try++ {
		err := attempt(ctx)
		if err == nil {
			logger.Info(ctx, "Controller accepted the request")

			return nil
		}

		// The service answered; trying again will not help.
		if errors.Is(err, ErrUnexpectedStatus) {
			return err
		}

		if opts.Attempts > 0 && try >= opts.Attempts {
			return fmt.Errorf("giving up after %d attempts: %w", try, err)
		}

		logger.WarnKV(ctx, "Controller unreachable, retrying", "attempt", try, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
