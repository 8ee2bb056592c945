package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/oshokin/alarm-clock/internal/api/grpc/health"
	"github.com/oshokin/alarm-clock/internal/api/http/intake"
	"github.com/oshokin/alarm-clock/internal/api/http/pages"
	"github.com/oshokin/alarm-clock/internal/api/http/stop"
	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/hardware"
	"github.com/oshokin/alarm-clock/internal/hardware/rpio"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/repository/status"
	"github.com/oshokin/alarm-clock/internal/service/player"
	"github.com/oshokin/alarm-clock/internal/service/scheduler"
	"github.com/oshokin/alarm-clock/internal/service/watcher"
	"github.com/oshokin/alarm-clock/internal/version"
)

// Options controls the alarm-controller process.
type Options struct {
	// ConfigPath specifies the path to the settings file.
	ConfigPath string
	// SetupLogger replaces the global logger according to the log section.
	// The global logger is not safe to replace while other goroutines log.
	SetupLogger bool
	// LogLevel overrides the configured log level when set.
	LogLevel string
	// HealthAddress overrides the configured health endpoint address.
	HealthAddress string
	// Clock drives every wait; nil means the real clock.
	Clock clockwork.Clock
	// Launcher overrides the exec based player launcher.
	Launcher player.Launcher
	// Inputs overrides the configured stop/snooze input driver.
	Inputs hardware.Panel
}

// Run starts the scheduler and blocks until ctx is canceled.
//
//nolint:funlen // Linear wiring of the process.
func Run(ctx context.Context, opts *Options) error {
	cfg, defaulted, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if opts.SetupLogger {
		flush := logger.Configure(cfg.Log.LevelOr(opts.LogLevel), true, cfg.Log.FileOptions())
		defer flush()
	}

	ctx = logger.WithName(ctx, "alarm-controller")

	if defaulted {
		logger.WarnKV(ctx, "Settings file not found, using defaults", "path", opts.ConfigPath)
	}

	c := cfg.Controller

	healthAddress := c.HealthAddress
	if opts.HealthAddress != "" {
		healthAddress = opts.HealthAddress
	}

	play := player.New(player.Options{
		Dir:      c.RingtoneDir,
		Allowed:  alarm.AllowList(c.Ringtones),
		Command:  c.PlayerCommand,
		Args:     c.PlayerArgs,
		Launcher: opts.Launcher,
		Clock:    opts.Clock,
	})

	// Players orphaned by a crash would keep ringing forever.
	if opts.Launcher == nil {
		if n, err := play.ReapStray(ctx); err != nil {
			logger.WarnKV(ctx, "Could not look for stray players", "error", err)
		} else if n > 0 {
			logger.InfoKV(ctx, "Stray players stopped", "count", n)
		}
	}

	inputs := opts.Inputs
	if inputs == nil {
		var closeInputs func()

		inputs, closeInputs, err = openInputs(ctx, c.Inputs)
		if err != nil {
			return err
		}

		defer closeInputs()
	}

	renderer, err := pages.NewRenderer(c.TemplateDir)
	if err != nil {
		return fmt.Errorf("load pages: %w", err)
	}

	requests := status.NewRequestStore(cfg.Files.DisplayRequest)

	sources := []scheduler.IntakeSource{
		intake.New(intake.Options{
			Address:         c.SettingsAddress,
			Endpoint:        c.SettingsEndpoint,
			PollInterval:    c.PollInterval,
			ShutdownTimeout: c.ShutdownTimeout,
		}, renderer),
		watcher.New(requests, watcher.Options{
			PollInterval:  c.PollInterval,
			Ringtone:      c.DisplayRingtone,
			SnoozeSeconds: c.DisplaySnoozeSeconds,
			Clock:         opts.Clock,
		}),
	}

	stopService := stop.New(stop.Options{
		Address:         c.StopAddress,
		Endpoint:        c.StopEndpoint,
		Command:         c.StopCommand,
		PollInterval:    c.PollInterval,
		ShutdownTimeout: c.ShutdownTimeout,
	}, renderer)

	var (
		reporter *health.Reporter
		observer scheduler.Observer
	)

	if healthAddress != "" {
		reporter = health.NewReporter()
		observer = reporter
	}

	sched := scheduler.New(
		scheduler.Stores{
			Controller: status.NewControllerStore(cfg.Files.ControllerStatus),
			Requests:   requests,
			Web:        status.NewWebStore(cfg.Files.WebStatus),
		},
		sources,
		stopService,
		play,
		inputs,
		scheduler.Options{
			IdleRingTime:  c.IdleRingTime,
			DefaultSnooze: time.Duration(c.DefaultSnoozeSeconds) * time.Second,
			PollInterval:  c.PollInterval,
			Clock:         opts.Clock,
			Observer:      observer,
		},
	)

	logger.InfoKV(ctx, "Alarm controller starting", append(version.KV(),
		"settings_addr", c.SettingsAddress,
		"stop_addr", c.StopAddress,
		"controller_status", cfg.Files.ControllerStatus,
		"display_request", cfg.Files.DisplayRequest,
		"inputs", c.Inputs.Driver,
	)...)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg        sync.WaitGroup
		healthErr error
	)

	if reporter != nil {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if err := health.Serve(runCtx, healthAddress, reporter); err != nil {
				healthErr = err

				logger.ErrorKV(ctx, "Health endpoint failed", "error", err)
				cancel()
			}
		}()
	}

	err = sched.Run(runCtx)

	cancel()
	wg.Wait()

	logger.Info(ctx, "Alarm controller stopped")

	return errors.Join(err, healthErr)
}

// openInputs returns the stop and snooze inputs of the configured driver.
func openInputs(ctx context.Context, in config.Inputs) (hardware.Panel, func(), error) {
	switch in.Driver {
	case config.DriverRPIO:
		if err := rpio.Open(); err != nil {
			return nil, nil, err
		}

		pins := map[string]int{
			hardware.InputStop:   in.Pins[hardware.InputStop],
			hardware.InputSnooze: in.Pins[hardware.InputSnooze],
		}

		return rpio.NewPanel(ctx, pins), func() { _ = rpio.Close() }, nil
	default:
		return hardware.NewReleasedPanel(hardware.InputStop, hardware.InputSnooze), func() {}, nil
	}
}
