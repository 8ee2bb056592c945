package rpio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	gpio "github.com/stianeikeland/go-rpio"

	"github.com/oshokin/alarm-clock/internal/hardware"
	"github.com/oshokin/alarm-clock/internal/logger"
)

const (
	// dischargeTime drains the sensor capacitor before a measurement.
	dischargeTime = 100 * time.Millisecond
	// maxChargeTime caps a measurement in a dark room.
	maxChargeTime = 2 * time.Second
)

var (
	// mu guards the shared /dev/gpiomem mapping.
	//nolint:gochecknoglobals // go-rpio keeps a single process-wide mapping.
	mu sync.Mutex
	// users counts open handles.
	//nolint:gochecknoglobals // See mu.
	users int
)

// errSensorClosed is returned after Close.
var errSensorClosed = errors.New("light sensor closed")

// Open maps the GPIO memory once per process. Every successful Open must be
// paired with a Close.
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if users == 0 {
		if err := gpio.Open(); err != nil {
			return fmt.Errorf("open gpio: %w", err)
		}
	}

	users++

	return nil
}

// Close releases one Open.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if users == 0 {
		return nil
	}

	users--
	if users > 0 {
		return nil
	}

	if err := gpio.Close(); err != nil {
		return fmt.Errorf("close gpio: %w", err)
	}

	return nil
}

// pin is an active-high button wired with a pull-down resistor.
type pin struct {
	p gpio.Pin
}

func (b pin) Pressed() bool {
	return b.p.Read() == gpio.High
}

// NewPanel configures the named BCM pins as pulled-down inputs. Open must
// have been called.
func NewPanel(ctx context.Context, pins map[string]int) hardware.Panel {
	panel := make(hardware.Panel, len(pins))

	for name, number := range pins {
		p := gpio.Pin(number)
		p.Input()
		p.PullDown()

		panel[name] = pin{p: p}

		logger.DebugKV(ctx, "GPIO input configured", "input", name, "pin", number)
	}

	return panel
}

// LightSensor measures the charge time of a capacitor behind a
// light-dependent resistor. A brighter room charges it faster.
type LightSensor struct {
	p      gpio.Pin
	clock  clockwork.Clock
	mu     sync.Mutex
	closed bool
}

// NewLightSensor returns a sensor on the BCM pin. Open must have been called.
func NewLightSensor(number int, clock clockwork.Clock) *LightSensor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &LightSensor{p: gpio.Pin(number), clock: clock}
}

// Brightness returns the charge time in milliseconds, capped at two seconds.
func (s *LightSensor) Brightness(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, errSensorClosed
	}

	s.p.Output()
	s.p.Low()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-s.clock.After(dischargeTime):
	}

	s.p.Input()

	start := s.clock.Now()
	for s.p.Read() == gpio.Low {
		elapsed := s.clock.Since(start)
		if elapsed >= maxChargeTime {
			break
		}

		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
	}

	return int(s.clock.Since(start).Round(time.Millisecond) / time.Millisecond), nil
}

// Close stops further measurements.
func (s *LightSensor) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
