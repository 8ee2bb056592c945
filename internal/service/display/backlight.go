package display

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/oshokin/alarm-clock/internal/hardware"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// BacklightController turns the backlight off while the room is bright.
// Readings above the threshold switch it off.
type BacklightController struct {
	sensor    hardware.LightSensor
	light     hardware.Backlight
	threshold int
	interval  time.Duration
	clock     clockwork.Clock

	manual atomic.Bool
}

// NewBacklightController creates a controller.
func NewBacklightController(
	sensor hardware.LightSensor,
	light hardware.Backlight,
	threshold int,
	interval time.Duration,
	clock clockwork.Clock,
) *BacklightController {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &BacklightController{
		sensor:    sensor,
		light:     light,
		threshold: threshold,
		interval:  interval,
		clock:     clock,
	}
}

// Run measures the light every interval until ctx is done.
func (b *BacklightController) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "backlight")

	ticker := b.clock.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		b.update(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
		}
	}
}

// Hold forces the backlight on and suspends automatic control until Release.
func (b *BacklightController) Hold() {
	b.manual.Store(true)
	b.light.SetBacklight(true)
}

// Release resumes automatic control.
func (b *BacklightController) Release() {
	b.manual.Store(false)
}

func (b *BacklightController) update(ctx context.Context) {
	level, err := b.sensor.Brightness(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.WarnKV(ctx, "Light sensor reading failed", "error", err)
		}

		return
	}

	on := b.manual.Load() || level <= b.threshold

	logger.DebugKV(ctx, "Light measured", "level", level, "backlight", on)

	b.light.SetBacklight(on)
}
