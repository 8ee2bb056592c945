package display

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/hardware"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// Display is the render loop of the display process.
type Display struct {
	reader    *StatusReader
	menu      *MenuEditor
	backlight *BacklightController
	screen    Screen
	inputs    hardware.Panel
	interval  time.Duration
	clock     clockwork.Clock
}

// New creates the render loop. backlight may be nil.
func New(
	reader *StatusReader,
	menu *MenuEditor,
	backlight *BacklightController,
	screen Screen,
	inputs hardware.Panel,
	interval time.Duration,
	clock clockwork.Clock,
) *Display {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Display{
		reader:    reader,
		menu:      menu,
		backlight: backlight,
		screen:    screen,
		inputs:    inputs,
		interval:  interval,
		clock:     clock,
	}
}

// Run renders the status every interval and opens the menu when the menu
// input is pressed. It returns nil when ctx is done.
func (d *Display) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "display")

	ticker := d.clock.NewTicker(d.interval)
	defer ticker.Stop()

	var (
		menu = newEdge(d.inputs.Get(hardware.InputMenu))
		last Lines
	)

	for {
		st, err := d.reader.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return err
		}

		if menu.rose() {
			if err := d.openMenu(ctx, st); err != nil {
				if ctx.Err() != nil {
					return nil
				}

				return err
			}

			// The menu drew over the status; force a redraw.
			last = Lines{}
			menu = newEdge(d.inputs.Get(hardware.InputMenu))
		} else if lines := Status(d.clock.Now(), st); lines != last {
			d.screen.Show(lines)
			last = lines
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
		}
	}
}

// openMenu runs the editor with the backlight held on.
func (d *Display) openMenu(ctx context.Context, st alarm.ControllerStatus) error {
	if d.backlight != nil {
		d.backlight.Hold()
		defer d.backlight.Release()
	}

	return d.menu.Run(ctx, st)
}
