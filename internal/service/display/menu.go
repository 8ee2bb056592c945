package display

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/hardware"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/repository/status"
)

// MenuState is the ring time being edited.
type MenuState struct {
	Candidate alarm.RingTime
}

// Adjust moves the candidate by delta minutes with wraparound.
func (m *MenuState) Adjust(delta int) {
	m.Candidate = m.Candidate.AddMinutes(delta)
}

// MenuOptions configures the editor.
type MenuOptions struct {
	// Default is the candidate when the menu opens.
	Default alarm.RingTime
	// StepMinutes is the adjustment per poll of a short press.
	StepMinutes int
	// HoldThreshold is the press duration after which steps accelerate.
	HoldThreshold time.Duration
	// HoldMultiplier multiplies the step of a held input.
	HoldMultiplier int
	// NoticeDuration is how long notices stay on screen.
	NoticeDuration time.Duration
	// PollInterval separates two input polls.
	PollInterval time.Duration
	// Clock drives polling and notices.
	Clock clockwork.Clock
}

// MenuEditor lets the user choose a ring time with the up, down, menu and
// confirm inputs. A confirmed time is written to the display request record.
type MenuEditor struct {
	inputs   hardware.Panel
	screen   Screen
	requests *status.RequestStore
	opts     MenuOptions
}

// NewMenuEditor creates an editor.
func NewMenuEditor(inputs hardware.Panel, screen Screen, requests *status.RequestStore, opts MenuOptions) *MenuEditor {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	if opts.StepMinutes <= 0 {
		opts.StepMinutes = 1
	}

	if opts.HoldMultiplier <= 0 {
		opts.HoldMultiplier = 1
	}

	return &MenuEditor{inputs: inputs, screen: screen, requests: requests, opts: opts}
}

// Run opens the menu. While an alarm is set or ringing it only shows a
// notice. It returns once the menu is closed.
func (e *MenuEditor) Run(ctx context.Context, st alarm.ControllerStatus) error {
	ctx = logger.WithName(ctx, "menu")

	if st.Active() || st.IsRinging() {
		logger.Info(ctx, "Menu requested while an alarm is set")

		return e.notice(ctx, Notice("Alarm already", "set"))
	}

	state := MenuState{Candidate: e.opts.Default}
	e.screen.Show(Menu(state.Candidate))

	logger.Info(ctx, "Menu opened")

	ticker := e.opts.Clock.NewTicker(e.opts.PollInterval)
	defer ticker.Stop()

	var (
		menu    = newEdge(e.inputs.Get(hardware.InputMenu))
		confirm = newEdge(e.inputs.Get(hardware.InputConfirm))
		up      = e.inputs.Get(hardware.InputUp)
		down    = e.inputs.Get(hardware.InputDown)

		heldDirection int
		heldSince     time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
		}

		// Edges are sampled every poll so a press is never counted twice.
		cancelled, confirmed := menu.rose(), confirm.rose()

		direction := 0

		switch {
		case up.Pressed():
			direction = 1
		case down.Pressed():
			direction = -1
		}

		if direction != 0 {
			now := e.opts.Clock.Now()
			if direction != heldDirection {
				heldDirection, heldSince = direction, now
			}

			step := e.opts.StepMinutes
			if now.Sub(heldSince) > e.opts.HoldThreshold {
				step *= e.opts.HoldMultiplier
			}

			state.Adjust(direction * step)
			e.screen.Show(Menu(state.Candidate))

			continue
		}

		heldDirection = 0

		if cancelled {
			logger.Info(ctx, "Menu closed without changes")

			return nil
		}

		if confirmed {
			if err := e.requests.Submit(ctx, state.Candidate); err != nil {
				return err
			}

			logger.InfoKV(ctx, "Ring time set", "ring_time", state.Candidate.String())

			return e.notice(ctx, Notice("Alarm", "set"))
		}
	}
}

func (e *MenuEditor) notice(ctx context.Context, lines Lines) error {
	e.screen.Show(lines)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.opts.Clock.After(e.opts.NoticeDuration):
		return nil
	}
}

// edge detects presses of an input that was possibly already held when
// polling started.
type edge struct {
	in   hardware.Input
	last bool
}

func newEdge(in hardware.Input) *edge {
	return &edge{in: in, last: in.Pressed()}
}

// rose reports whether the input went from released to pressed.
func (e *edge) rose() bool {
	pressed := e.in.Pressed()
	rose := pressed && !e.last
	e.last = pressed

	return rose
}
