package display

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/hardware"
	"github.com/oshokin/alarm-clock/internal/hardware/rpio"
	"github.com/oshokin/alarm-clock/internal/hardware/tui"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/repository/status"
	"github.com/oshokin/alarm-clock/internal/version"
)

// Options controls the alarm-display process.
type Options struct {
	// ConfigPath specifies the path to the settings file.
	ConfigPath string
	// SetupLogger replaces the global logger according to the log section.
	SetupLogger bool
	// LogLevel overrides the configured log level when set.
	LogLevel string
	// Screen overrides the configured screen back-end ("log" or "tui").
	Screen string
	// Clock drives every wait; nil means the real clock.
	Clock clockwork.Clock
	// Output replaces the configured screen.
	Output Screen
	// Inputs replaces the configured input driver.
	Inputs hardware.Panel
}

// errTUIInputs is returned when keyboard inputs are requested without the
// terminal UI.
var errTUIInputs = errors.New("tui inputs need the tui screen")

// tuiScreen adapts the terminal UI to Screen.
type tuiScreen struct {
	*tui.Screen
}

func (s tuiScreen) Show(lines Lines) {
	s.Screen.Show(lines[0], lines[1])
}

// task is a long running part of the process.
type task func(ctx context.Context) error

// Run starts the display and blocks until ctx is canceled or the terminal
// UI is closed.
//
//nolint:cyclop,funlen // Linear wiring of the process.
func Run(ctx context.Context, opts *Options) error {
	cfg, defaulted, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	d := cfg.Display

	kind := d.Screen
	if opts.Screen != "" {
		kind = opts.Screen
	}

	useTUI := opts.Output == nil && kind == config.ScreenTUI

	if opts.SetupLogger {
		// The terminal UI owns stdout.
		flush := logger.Configure(cfg.Log.LevelOr(opts.LogLevel), !useTUI, cfg.Log.FileOptions())
		defer flush()
	}

	ctx = logger.WithName(ctx, "alarm-display")

	if defaulted {
		logger.WarnKV(ctx, "Settings file not found, using defaults", "path", opts.ConfigPath)
	}

	menuDefault, err := alarm.ParseRingTime(d.MenuDefault)
	if err != nil {
		return fmt.Errorf("menu_default: %w", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		screen = opts.Output
		inputs = opts.Inputs
		tasks  []task
		term   *tui.Screen
	)

	switch {
	case screen != nil:
	case useTUI:
		term = tui.New(runCtx, tui.Options{Title: "alarm-display", Backlight: !d.Backlight.Enabled})
		screen = tuiScreen{term}
		tasks = append(tasks, term.Run)
	default:
		screen = NewLogScreen(ctx)
	}

	var sensor hardware.LightSensor = hardware.NewFixedLight(0)

	if inputs == nil {
		switch d.Inputs.Driver {
		case config.DriverRPIO:
			if err := rpio.Open(); err != nil {
				return err
			}

			defer rpio.Close() //nolint:errcheck // Nothing to do about a failed unmap on exit.

			inputs = rpio.NewPanel(ctx, displayPins(d.Inputs.Pins))

			if d.Backlight.Enabled {
				light := rpio.NewLightSensor(d.Backlight.SensorPin, clock)
				defer light.Close()

				sensor = light
			}
		case config.DriverTUI:
			if term == nil {
				return errTUIInputs
			}

			inputs = term.Panel()
		default:
			if term != nil {
				inputs = term.Panel()

				break
			}

			inputs = hardware.NewReleasedPanel(
				hardware.InputUp, hardware.InputDown, hardware.InputMenu, hardware.InputConfirm,
			)
		}
	}

	reader := NewStatusReader(status.NewControllerStore(cfg.Files.ControllerStatus), ReaderOptions{
		Retries:    d.StatusRetries,
		RetryDelay: d.StatusRetryDelay,
		Backoff:    d.StatusBackoff,
		Clock:      clock,
	})

	menu := NewMenuEditor(inputs, screen, status.NewRequestStore(cfg.Files.DisplayRequest), MenuOptions{
		Default:        menuDefault,
		StepMinutes:    d.MenuStepMinutes,
		HoldThreshold:  d.HoldThreshold,
		HoldMultiplier: d.HoldMultiplier,
		NoticeDuration: d.NoticeDuration,
		PollInterval:   d.PollInterval,
		Clock:          clock,
	})

	var backlight *BacklightController
	if d.Backlight.Enabled {
		backlight = NewBacklightController(sensor, screen, d.Backlight.Threshold, d.Backlight.Interval, clock)
		tasks = append(tasks, backlight.Run)
	} else if term == nil {
		screen.SetBacklight(true)
	}

	display := New(reader, menu, backlight, screen, inputs, d.PollInterval, clock)
	tasks = append(tasks, display.Run)

	logger.InfoKV(ctx, "Alarm display starting", append(version.KV(),
		"screen", kind,
		"inputs", d.Inputs.Driver,
		"backlight", d.Backlight.Enabled,
		"controller_status", cfg.Files.ControllerStatus,
		"display_request", cfg.Files.DisplayRequest,
	)...)

	err = runTasks(runCtx, cancel, tasks)

	logger.Info(ctx, "Alarm display stopped")

	return err
}

// runTasks runs every task and cancels the rest as soon as one returns.
func runTasks(ctx context.Context, cancel context.CancelFunc, tasks []task) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, t := range tasks {
		t := t
		wg.Add(1)

		go func() {
			defer wg.Done()
			defer cancel()

			if err := t(ctx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	return errors.Join(errs...)
}

func displayPins(pins map[string]int) map[string]int {
	out := make(map[string]int, 4)

	for _, name := range []string{hardware.InputUp, hardware.InputDown, hardware.InputMenu, hardware.InputConfirm} {
		if pin, ok := pins[name]; ok {
			out[name] = pin
		}
	}

	return out
}
