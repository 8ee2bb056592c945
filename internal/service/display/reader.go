package display

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/repository/status"
)

// ReaderOptions configures a StatusReader.
type ReaderOptions struct {
	// Retries is the number of fast attempts.
	Retries int
	// RetryDelay separates the fast attempts.
	RetryDelay time.Duration
	// Backoff is waited after the fast attempts are exhausted.
	Backoff time.Duration
	// Clock drives the waits.
	Clock clockwork.Clock
}

// StatusReader reads the controller record. A record that keeps coming back
// healed is retried a few times quickly and then once more after a longer
// pause; the default record is returned rather than an error.
type StatusReader struct {
	store *status.ControllerStore
	opts  ReaderOptions
}

// NewStatusReader creates a reader over store.
func NewStatusReader(store *status.ControllerStore, opts ReaderOptions) *StatusReader {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	if opts.Retries <= 0 {
		opts.Retries = 1
	}

	return &StatusReader{store: store, opts: opts}
}

// Read returns the current status. It only fails when ctx is done or the
// record cannot be written.
func (r *StatusReader) Read(ctx context.Context) (alarm.ControllerStatus, error) {
	for attempt := 1; attempt <= r.opts.Retries; attempt++ {
		st, healed, err := r.store.Load(ctx)
		if err != nil {
			return alarm.ControllerStatus{}, err
		}

		if !healed {
			return st, nil
		}

		logger.WarnKV(ctx, "Controller status was reset, retrying", "attempt", attempt, "of", r.opts.Retries)

		if err := r.sleep(ctx, r.opts.RetryDelay); err != nil {
			return alarm.ControllerStatus{}, err
		}
	}

	logger.ErrorKV(ctx, "Controller status unusable, backing off",
		"attempts", r.opts.Retries,
		"backoff", r.opts.Backoff.String(),
	)

	if err := r.sleep(ctx, r.opts.Backoff); err != nil {
		return alarm.ControllerStatus{}, err
	}

	return alarm.DefaultControllerStatus(), nil
}

func (r *StatusReader) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.opts.Clock.After(d):
		return nil
	}
}
