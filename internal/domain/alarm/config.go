package alarm

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Source names the intake source a submission came from.
type Source string

const (
	// SourceHTTP is the settings intake service.
	SourceHTTP Source = "http"
	// SourceDisplay is the display request watcher.
	SourceDisplay Source = "display"
)

var (
	// ErrInvalidSnooze is returned when the snooze value is not a positive
	// number of seconds.
	ErrInvalidSnooze = errors.New("snooze must be a positive number of seconds")
	// ErrRingtoneNotAllowed is returned for a ringtone outside the allow-list.
	ErrRingtoneNotAllowed = errors.New("ringtone is not allowed")
)

// Submission is an alarm configuration as received, before any validation.
type Submission struct {
	RingTime string
	Ringtone string
	Snooze   string
	Source   Source
}

// Config is the alarm configuration adopted for one cycle.
type Config struct {
	RingTime RingTime
	Ringtone string
	Snooze   time.Duration
	Source   Source
}

// Parse turns a submission into a Config. An invalid ring time fails with
// ErrInvalidRingTime. An unusable snooze value is replaced by defaultSnooze
// and reported with ErrInvalidSnooze next to a usable Config. The ringtone is
// copied verbatim; the allow-list is enforced at playback.
func (s Submission) Parse(defaultSnooze time.Duration) (Config, error) {
	rt, err := ParseRingTime(s.RingTime)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		RingTime: rt,
		Ringtone: s.Ringtone,
		Snooze:   defaultSnooze,
		Source:   s.Source,
	}

	seconds, convErr := strconv.ParseInt(strings.TrimSpace(s.Snooze), 10, 64)
	if convErr != nil || seconds <= 0 || seconds > maxSnoozeSeconds {
		return cfg, fmt.Errorf("%q: %w", s.Snooze, ErrInvalidSnooze)
	}

	cfg.Snooze = time.Duration(seconds) * time.Second

	return cfg, nil
}

// maxSnoozeSeconds is the longest snooze a time.Duration can hold.
const maxSnoozeSeconds = math.MaxInt64 / int64(time.Second)

// AllowList is the set of ringtone file names permitted for playback.
type AllowList []string

// Check returns ErrRingtoneNotAllowed unless name is listed. Names never
// contain path separators, so a listed name cannot escape the ringtone
// directory.
func (a AllowList) Check(name string) error {
	if strings.ContainsAny(name, `/\`) || !slices.Contains(a, name) {
		return fmt.Errorf("%q: %w", name, ErrRingtoneNotAllowed)
	}

	return nil
}
