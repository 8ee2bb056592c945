package display

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-clock/internal/hardware"
)

// TestBacklightController follows the light sensor unless held on.
func TestBacklightController(t *testing.T) {
	t.Parallel()

	const interval = 2 * time.Second

	clock := clockwork.NewFakeClock()
	light := hardware.NewFixedLight(20)
	backlight := new(hardware.BacklightState)
	ctrl := NewBacklightController(light, backlight, 100, interval, clock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- ctrl.Run(ctx)
	}()

	// Readings at or below the threshold keep the light on.
	require.Eventually(t, backlight.On, time.Second, time.Millisecond)

	// Readings above the threshold switch it off.
	light.Set(150)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(interval)
	require.Eventually(t, func() bool { return !backlight.On() }, time.Second, time.Millisecond)

	// The menu holds the light on regardless of the reading.
	ctrl.Hold()
	require.True(t, backlight.On())
	clock.Advance(interval)
	require.Never(t, func() bool { return !backlight.On() }, 50*time.Millisecond, time.Millisecond)

	ctrl.Release()
	clock.Advance(interval)
	require.Eventually(t, func() bool { return !backlight.On() }, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
