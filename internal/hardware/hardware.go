package hardware

import (
	"context"
	"sync/atomic"
)

// Input names.
const (
	InputStop    = "stop"
	InputSnooze  = "snooze"
	InputUp      = "up"
	InputDown    = "down"
	InputMenu    = "menu"
	InputConfirm = "confirm"
)

// Input is a polled, active-high digital input.
type Input interface {
	Pressed() bool
}

// LightSensor measures the ambient light. Larger readings mean a darker room.
type LightSensor interface {
	Brightness(ctx context.Context) (int, error)
}

// Backlight switches the display backlight.
type Backlight interface {
	SetBacklight(on bool)
}

// Released is an input that is never pressed.
//
//nolint:gochecknoglobals // Stateless sentinel.
var Released Input = released{}

type released struct{}

func (released) Pressed() bool { return false }

// Panel is a set of named inputs.
type Panel map[string]Input

// Get returns the named input, or Released when the panel lacks it.
//
//nolint:ireturn // Callers only poll the input.
func (p Panel) Get(name string) Input {
	if in, ok := p[name]; ok && in != nil {
		return in
	}

	return Released
}

// NewReleasedPanel returns a panel whose inputs are never pressed.
func NewReleasedPanel(names ...string) Panel {
	p := make(Panel, len(names))
	for _, name := range names {
		p[name] = Released
	}

	return p
}

// Switch is an input driven by software: the terminal UI and tests.
type Switch struct {
	pressed atomic.Bool
}

// Press holds the switch down.
func (s *Switch) Press() {
	s.pressed.Store(true)
}

// Release lets the switch go.
func (s *Switch) Release() {
	s.pressed.Store(false)
}

// Set presses or releases the switch.
func (s *Switch) Set(pressed bool) {
	s.pressed.Store(pressed)
}

// Pressed reports whether the switch is held down.
func (s *Switch) Pressed() bool {
	return s.pressed.Load()
}

// NewSwitchPanel returns a panel of switches and the switches by name.
func NewSwitchPanel(names ...string) (Panel, map[string]*Switch) {
	p := make(Panel, len(names))
	switches := make(map[string]*Switch, len(names))

	for _, name := range names {
		sw := new(Switch)
		p[name] = sw
		switches[name] = sw
	}

	return p, switches
}

// FixedLight is a light sensor that always returns the same reading.
type FixedLight struct {
	level atomic.Int64
}

// NewFixedLight returns a sensor reporting level.
func NewFixedLight(level int) *FixedLight {
	l := new(FixedLight)
	l.Set(level)

	return l
}

// Set changes the reported reading.
func (l *FixedLight) Set(level int) {
	l.level.Store(int64(level))
}

// Brightness returns the reading.
func (l *FixedLight) Brightness(context.Context) (int, error) {
	return int(l.level.Load()), nil
}

// BacklightState records the last backlight command.
type BacklightState struct {
	on atomic.Bool
}

// SetBacklight stores the state.
func (b *BacklightState) SetBacklight(on bool) {
	b.on.Store(on)
}

// On reports the last stored state.
func (b *BacklightState) On() bool {
	return b.on.Load()
}
