package alarm

import (
	"sync"
	"sync/atomic"
)

// Latch is a one-shot completion signal. Any number of tasks may wait on
// Done; exactly one Resolve call wins and stores its value.
type Latch[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
}

// NewLatch returns an unresolved latch.
func NewLatch[T any]() *Latch[T] {
	return &Latch[T]{done: make(chan struct{})}
}

// Resolve stores v and releases the waiters. It reports whether this call
// won; later calls leave the stored value unchanged.
func (l *Latch[T]) Resolve(v T) bool {
	won := false

	l.once.Do(func() {
		l.value = v
		won = true

		close(l.done)
	})

	return won
}

// Done is closed once the latch is resolved.
func (l *Latch[T]) Done() <-chan struct{} {
	return l.done
}

// Resolved reports whether the latch has been resolved.
func (l *Latch[T]) Resolved() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Value returns the stored value and whether the latch is resolved.
func (l *Latch[T]) Value() (T, bool) {
	if !l.Resolved() {
		var zero T

		return zero, false
	}

	return l.value, true
}

// StopFlag records a stop request for the running cycle.
type StopFlag struct {
	requested atomic.Bool
}

// Request sets the flag.
func (f *StopFlag) Request() {
	f.requested.Store(true)
}

// Requested reports whether the flag is set.
func (f *StopFlag) Requested() bool {
	return f.requested.Load()
}

// Clear unsets the flag.
func (f *StopFlag) Clear() {
	f.requested.Store(false)
}
