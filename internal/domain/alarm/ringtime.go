package alarm

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	hoursPerDay    = 24
	minutesPerHour = 60
	minutesPerDay  = hoursPerDay * minutesPerHour
)

// ErrInvalidRingTime is returned when a value is not an HH:MM time of day.
var ErrInvalidRingTime = errors.New("ring time must be HH:MM")

// ringTimePattern accepts one or two digit hours 0-23 and minutes 0-59.
var ringTimePattern = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]?\d)$`)

// RingTime is a wall-clock time of day with minute precision.
type RingTime struct {
	Hour   int
	Minute int
}

// ParseRingTime parses "HH:MM" (single digit fields allowed).
func ParseRingTime(s string) (RingTime, error) {
	m := ringTimePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return RingTime{}, fmt.Errorf("%q: %w", s, ErrInvalidRingTime)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])

	return RingTime{Hour: hour, Minute: minute}, nil
}

// IsRingTime reports whether s parses as a ring time.
func IsRingTime(s string) bool {
	_, err := ParseRingTime(s)

	return err == nil
}

// String renders the time as zero-padded HH:MM.
func (r RingTime) String() string {
	return fmt.Sprintf("%02d:%02d", r.Hour, r.Minute)
}

// AddMinutes moves the time by delta minutes, wrapping around midnight in
// both directions.
func (r RingTime) AddMinutes(delta int) RingTime {
	total := (r.Hour*minutesPerHour + r.Minute + delta) % minutesPerDay
	if total < 0 {
		total += minutesPerDay
	}

	return RingTime{Hour: total / minutesPerHour, Minute: total % minutesPerHour}
}

// Today returns the occurrence of r on now's calendar day, in now's location.
func (r RingTime) Today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), r.Hour, r.Minute, 0, 0, now.Location())
}

// WaitDuration returns the time left until the next occurrence of r. A
// target earlier than now moves to the following day, so the result is
// always in [0, 24h). A target equal to now yields zero.
func WaitDuration(now time.Time, r RingTime) time.Duration {
	wait := r.Today(now).Sub(now)
	if wait < 0 {
		wait += hoursPerDay * time.Hour
	}

	return wait
}
