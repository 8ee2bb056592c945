package watcher

import (
	"context"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/repository/status"
)

// Options configures the watcher.
type Options struct {
	// PollInterval separates two reads of the record.
	PollInterval time.Duration
	// Ringtone is used for alarms set on the display.
	Ringtone string
	// SnoozeSeconds is used for alarms set on the display.
	SnoozeSeconds int
	// Clock drives the polling.
	Clock clockwork.Clock
}

// Watcher polls the display request record.
type Watcher struct {
	store *status.RequestStore
	opts  Options
}

// New creates a watcher over store.
func New(store *status.RequestStore, opts Options) *Watcher {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	return &Watcher{store: store, opts: opts}
}

// Run polls until a ring time is found, latch is resolved by another source
// or ctx is done. It only returns an error when the record cannot be healed.
func (w *Watcher) Run(ctx context.Context, latch *alarm.Latch[alarm.Submission]) error {
	ctx = logger.WithName(ctx, "display-watcher")

	ticker := w.opts.Clock.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-latch.Done():
			logger.Debugf(ctx, "Cycle configured by another source")

			return nil
		case <-ticker.Chan():
		}

		if latch.Resolved() {
			return nil
		}

		req, err := w.store.Load(ctx)
		if err != nil {
			return err
		}

		if !req.Pending() {
			continue
		}

		sub := alarm.Submission{
			RingTime: req.RingTime.String(),
			Ringtone: w.opts.Ringtone,
			Snooze:   strconv.Itoa(w.opts.SnoozeSeconds),
			Source:   alarm.SourceDisplay,
		}

		if latch.Resolve(sub) {
			logger.InfoKV(ctx, "Ring time received from display", "ring_time", sub.RingTime)
		}

		return nil
	}
}
