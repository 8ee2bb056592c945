package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/hardware"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/repository/status"
	"github.com/oshokin/alarm-clock/internal/service/player"
)

// IntakeSource supplies the configuration of a cycle by resolving the latch.
type IntakeSource interface {
	Run(ctx context.Context, latch *alarm.Latch[alarm.Submission]) error
}

// StopService sets the stop flag on a remote command.
type StopService interface {
	Run(ctx context.Context, flag *alarm.StopFlag) error
}

// Player sounds the ringtone.
type Player interface {
	Check(ringtone string) error
	Play(ctx context.Context, ringtone string) (*player.Playback, error)
}

// Observer is told about every state change.
type Observer interface {
	Observe(state alarm.State)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(alarm.State)

// Observe calls f.
func (f ObserverFunc) Observe(state alarm.State) {
	f(state)
}

// Stores are the status records the scheduler writes.
type Stores struct {
	Controller *status.ControllerStore
	Requests   *status.RequestStore
	Web        *status.WebStore
}

// Options configures the scheduler.
type Options struct {
	// IdleRingTime is published while no alarm is set.
	IdleRingTime string
	// DefaultSnooze replaces an unusable submitted snooze value.
	DefaultSnooze time.Duration
	// PollInterval paces the countdown and ringing checks.
	PollInterval time.Duration
	// RetryDelay is waited after a failed cycle.
	RetryDelay time.Duration
	// Clock drives every wait.
	Clock clockwork.Clock
	// Observer is told about state changes. May be nil.
	Observer Observer
}

// DefaultRetryDelay is the pause after a failed cycle.
const DefaultRetryDelay = time.Second

var (
	// ErrNoIntake is returned when every intake source exits without a submission.
	ErrNoIntake = errors.New("every intake source exited without a submission")
	// errCyclePanic wraps a panic recovered in a cycle.
	errCyclePanic = errors.New("cycle panicked")
)

// outcome is how a playback round ended.
type outcome int

const (
	outcomeStop outcome = iota
	outcomeSnooze
	outcomeFinished
	outcomeCancelled
)

// Scheduler runs alarm cycles until its context is done.
type Scheduler struct {
	stores  Stores
	sources []IntakeSource
	stop    StopService
	player  Player
	inputs  hardware.Panel
	opts    Options

	state atomic.Int32
}

// New creates a scheduler. inputs supplies the stop and snooze inputs.
func New(
	stores Stores,
	sources []IntakeSource,
	stop StopService,
	play Player,
	inputs hardware.Panel,
	opts Options,
) *Scheduler {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}

	if stores.Web == nil {
		stores.Web = status.NewWebStore("")
	}

	return &Scheduler{
		stores:  stores,
		sources: sources,
		stop:    stop,
		player:  play,
		inputs:  inputs,
		opts:    opts,
	}
}

// State returns the current state.
func (s *Scheduler) State() alarm.State {
	return alarm.State(s.state.Load())
}

// Run loops over cycles until ctx is done. Failed cycles are logged and
// followed by a new one.
func (s *Scheduler) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "scheduler")

	for {
		if ctx.Err() != nil {
			return nil
		}

		err := s.RunCycle(ctx)

		switch {
		case err == nil:
		case ctx.Err() != nil:
			return nil
		default:
			logger.ErrorKV(ctx, "Alarm cycle failed", "error", err)

			select {
			case <-ctx.Done():
				return nil
			case <-s.opts.Clock.After(s.opts.RetryDelay):
			}
		}
	}
}

// RunCycle runs one cycle from Idle back to Idle. The idle bookkeeping is
// restored on every return path, panics included.
func (s *Scheduler) RunCycle(ctx context.Context) (err error) {
	cycle := newCycleState()
	ctx = logger.WithKV(ctx, "cycle_id", cycle.ID)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errCyclePanic, r)
		}

		if resetErr := s.enterIdle(context.WithoutCancel(ctx), cycle); resetErr != nil {
			err = errors.Join(err, resetErr)
		}

		logger.DebugKV(ctx, "Cycle finished")
	}()

	if err = s.enterIdle(ctx, cycle); err != nil {
		return err
	}

	sub, err := s.awaitConfig(ctx, cycle)
	if err != nil {
		return err
	}

	cfg, err := sub.Parse(s.opts.DefaultSnooze)

	switch {
	case errors.Is(err, alarm.ErrInvalidSnooze):
		logger.WarnKV(ctx, "Invalid snooze duration, using default",
			"snooze_time", sub.Snooze,
			"default", s.opts.DefaultSnooze.String(),
		)
	case err != nil:
		logger.ErrorKV(ctx, "Invalid ring time, alarm not set", "ring_time", sub.RingTime, "source", sub.Source)

		return fmt.Errorf("adopt configuration: %w", err)
	}

	cycle.Config = cfg

	logger.InfoKV(ctx, "Alarm configured",
		"source", cfg.Source,
		"ring_time", cfg.RingTime.String(),
		"ring_tone", cfg.Ringtone,
		"snooze", cfg.Snooze.String(),
	)

	return s.armAndRing(ctx, cycle)
}

// enterIdle publishes the inactive records and clears the cycle inputs.
func (s *Scheduler) enterIdle(ctx context.Context, cycle *CycleState) error {
	s.setState(ctx, alarm.StateIdle)

	cycle.Stop.Clear()
	cycle.Config = alarm.Config{}

	idle := alarm.ControllerStatus{
		RingTime: s.opts.IdleRingTime,
		Phase:    alarm.PhaseInactive,
		Ringing:  alarm.RingingOff,
	}

	return errors.Join(
		s.stores.Controller.Publish(ctx, idle),
		s.stores.Web.Publish(ctx, alarm.PhaseInactive),
		s.stores.Requests.Reset(ctx),
	)
}

// awaitConfig runs the intake sources until one resolves the latch. The
// losers are cancelled and waited for so their listeners are released
// before the next cycle.
func (s *Scheduler) awaitConfig(ctx context.Context, cycle *CycleState) (alarm.Submission, error) {
	s.setState(ctx, alarm.StateAwaitingConfig)

	sourceCtx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup

	exited := make(chan struct{}, len(s.sources))

	for _, source := range s.sources {
		source := source
		wg.Add(1)

		go func() {
			defer wg.Done()

			if err := source.Run(sourceCtx, cycle.Latch); err != nil {
				logger.ErrorKV(ctx, "Intake source failed", "error", err)
			}

			exited <- struct{}{}
		}()
	}

	defer func() {
		cancel()
		wg.Wait()
	}()

	for remaining := len(s.sources); ; {
		select {
		case <-cycle.Latch.Done():
			sub, _ := cycle.Latch.Value()

			return sub, nil
		case <-ctx.Done():
			return alarm.Submission{}, ctx.Err()
		case <-exited:
			remaining--
			if remaining > 0 {
				continue
			}

			// A source may resolve the latch right before exiting.
			if sub, ok := cycle.Latch.Value(); ok {
				return sub, nil
			}

			return alarm.Submission{}, ErrNoIntake
		}
	}
}

// armAndRing runs Armed, Ringing and Snoozed with the stop service up.
func (s *Scheduler) armAndRing(ctx context.Context, cycle *CycleState) error {
	stopCtx, stopService := context.WithCancel(ctx)

	var wg sync.WaitGroup

	defer func() {
		stopService()
		wg.Wait()
	}()

	s.setState(ctx, alarm.StateArmed)

	err := errors.Join(
		s.publish(ctx, cycle, alarm.RingingOff),
		s.stores.Web.Publish(ctx, alarm.PhaseActive),
	)
	if err != nil {
		return err
	}

	if s.stop != nil {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if err := s.stop.Run(stopCtx, cycle.Stop); err != nil {
				logger.ErrorKV(ctx, "Stop command service failed", "error", err)
			}
		}()
	}

	fire, err := s.countdown(ctx, cycle)
	if err != nil || !fire {
		return err
	}

	return s.ring(ctx, cycle)
}

// countdown waits for the ring time. It reports false when a stop request
// cancelled the alarm first.
func (s *Scheduler) countdown(ctx context.Context, cycle *CycleState) (bool, error) {
	wait := alarm.WaitDuration(s.opts.Clock.Now(), cycle.Config.RingTime)

	logger.InfoKV(ctx, "Alarm armed", "ring_time", cycle.Config.RingTime.String(), "wait", wait.String())

	if wait <= 0 {
		return true, nil
	}

	timer := s.opts.Clock.NewTimer(wait)
	defer timer.Stop()

	ticker := s.opts.Clock.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-timer.Chan():
			return true, nil
		case <-ticker.Chan():
			if s.stopRequested(cycle) {
				logger.Info(ctx, "Alarm cancelled before ringing")

				return false, nil
			}
		}
	}
}

// ring plays the ringtone until a stop request. Snoozes and playbacks that
// end on their own start it again. A refused ringtone ends the cycle before
// the record claims ringing.
func (s *Scheduler) ring(ctx context.Context, cycle *CycleState) error {
	if err := s.player.Check(cycle.Config.Ringtone); err != nil {
		logger.ErrorKV(ctx, "Playback refused", "ring_tone", cycle.Config.Ringtone, "error", err)

		return fmt.Errorf("play ringtone: %w", err)
	}

	for {
		s.setState(ctx, alarm.StateRinging)

		if err := s.publish(ctx, cycle, alarm.RingingOn); err != nil {
			return err
		}

		pb, err := s.player.Play(ctx, cycle.Config.Ringtone)
		if err != nil {
			logger.ErrorKV(ctx, "Playback failed", "ring_tone", cycle.Config.Ringtone, "error", err)

			return fmt.Errorf("play ringtone: %w", err)
		}

		result := s.monitor(ctx, cycle, pb)

		switch result {
		case outcomeStop:
			logger.Info(ctx, "Alarm stopped")

			return s.terminate(ctx, pb)
		case outcomeCancelled:
			_ = s.terminate(ctx, pb)

			return ctx.Err()
		case outcomeFinished:
			logger.Debugf(ctx, "Ringtone finished, replaying")
		case outcomeSnooze:
			if err := s.snooze(ctx, cycle, pb); err != nil {
				return err
			}
		}
	}
}

// monitor polls the inputs while the ringtone plays.
func (s *Scheduler) monitor(ctx context.Context, cycle *CycleState, pb *player.Playback) outcome {
	ticker := s.opts.Clock.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return outcomeCancelled
		case <-pb.Done():
			if s.stopRequested(cycle) {
				return outcomeStop
			}

			return outcomeFinished
		case <-ticker.Chan():
			if s.stopRequested(cycle) {
				return outcomeStop
			}

			if s.inputs.Get(hardware.InputSnooze).Pressed() {
				return outcomeSnooze
			}
		}
	}
}

// snooze silences the alarm for the snooze duration. Only process shutdown
// ends the wait early; a stop request takes effect once ringing resumes.
func (s *Scheduler) snooze(ctx context.Context, cycle *CycleState, pb *player.Playback) error {
	s.setState(ctx, alarm.StateSnoozed)

	if err := s.publish(ctx, cycle, alarm.RingingOff); err != nil {
		_ = s.terminate(ctx, pb)

		return err
	}

	if err := s.terminate(ctx, pb); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Alarm snoozed", "snooze", cycle.Config.Snooze.String())

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.opts.Clock.After(cycle.Config.Snooze):
		return nil
	}
}

func (s *Scheduler) terminate(ctx context.Context, pb *player.Playback) error {
	if err := pb.Terminate(); err != nil {
		logger.ErrorKV(ctx, "Unable to stop player", "error", err)

		return fmt.Errorf("terminate playback: %w", err)
	}

	return nil
}

func (s *Scheduler) stopRequested(cycle *CycleState) bool {
	return cycle.Stop.Requested() || s.inputs.Get(hardware.InputStop).Pressed()
}

func (s *Scheduler) publish(ctx context.Context, cycle *CycleState, ringing alarm.Ringing) error {
	return s.stores.Controller.Publish(ctx, alarm.ControllerStatus{
		RingTime: cycle.Config.RingTime.String(),
		Phase:    alarm.PhaseActive,
		Ringing:  ringing,
	})
}

func (s *Scheduler) setState(ctx context.Context, state alarm.State) {
	if alarm.State(s.state.Swap(int32(state))) == state {
		return
	}

	logger.DebugKV(ctx, "State changed", "state", state.String())

	if s.opts.Observer != nil {
		s.opts.Observer.Observe(state)
	}
}
