package alarm

import (
	"errors"
	"fmt"
)

// Phase tells whether an alarm is armed.
type Phase string

// Ringing tells whether the alarm is sounding.
type Ringing string

const (
	// PhaseActive means an alarm is set for this cycle.
	PhaseActive Phase = "active"
	// PhaseInactive means no alarm is set.
	PhaseInactive Phase = "inactive"

	// RingingOn means the ringtone is playing.
	RingingOn Ringing = "ringing"
	// RingingOff means the ringtone is not playing.
	RingingOff Ringing = "not_ringing"

	// ControllerStatusFields is the line count of the controller record.
	ControllerStatusFields = 3

	// NoRequest is the display request sentinel.
	NoRequest = "None"
)

var (
	// ErrBadPhase is returned for an unknown phase token.
	ErrBadPhase = errors.New("phase must be active or inactive")
	// ErrBadRinging is returned for an unknown ringing token.
	ErrBadRinging = errors.New("ringing must be ringing or not_ringing")
	// ErrFieldCount is returned when a record has the wrong number of fields.
	ErrFieldCount = errors.New("unexpected field count")
	// ErrBadRequest is returned for a display request that is neither the
	// sentinel nor a ring time.
	ErrBadRequest = errors.New("display request must be None or HH:MM")
)

// ControllerStatus is the record the controller publishes for the display.
type ControllerStatus struct {
	RingTime string
	Phase    Phase
	Ringing  Ringing
}

// DefaultControllerStatus is the record a corrupt or missing file heals to.
func DefaultControllerStatus() ControllerStatus {
	return ControllerStatus{
		RingTime: "11:11",
		Phase:    PhaseInactive,
		Ringing:  RingingOff,
	}
}

// Active reports whether an alarm is armed.
func (s ControllerStatus) Active() bool {
	return s.Phase == PhaseActive
}

// IsRinging reports whether the alarm is sounding.
func (s ControllerStatus) IsRinging() bool {
	return s.Ringing == RingingOn
}

// Fields returns the record lines in file order.
func (s ControllerStatus) Fields() []string {
	return []string{s.RingTime, string(s.Phase), string(s.Ringing)}
}

// ParseControllerStatus parses and validates the three record lines.
func ParseControllerStatus(fields []string) (ControllerStatus, error) {
	if len(fields) != ControllerStatusFields {
		return ControllerStatus{}, fmt.Errorf("%d fields: %w", len(fields), ErrFieldCount)
	}

	if !IsRingTime(fields[0]) {
		return ControllerStatus{}, fmt.Errorf("line 1 %q: %w", fields[0], ErrInvalidRingTime)
	}

	phase := Phase(fields[1])
	if phase != PhaseActive && phase != PhaseInactive {
		return ControllerStatus{}, fmt.Errorf("line 2 %q: %w", fields[1], ErrBadPhase)
	}

	ringing := Ringing(fields[2])
	if ringing != RingingOn && ringing != RingingOff {
		return ControllerStatus{}, fmt.Errorf("line 3 %q: %w", fields[2], ErrBadRinging)
	}

	return ControllerStatus{RingTime: fields[0], Phase: phase, Ringing: ringing}, nil
}

// DisplayRequest is the ring time submitted from the display menu, if any.
type DisplayRequest struct {
	RingTime *RingTime
}

// Pending reports whether the request carries a ring time.
func (r DisplayRequest) Pending() bool {
	return r.RingTime != nil
}

// String renders the record line.
func (r DisplayRequest) String() string {
	if r.RingTime == nil {
		return NoRequest
	}

	return r.RingTime.String()
}

// ParseDisplayRequest parses the record line.
func ParseDisplayRequest(s string) (DisplayRequest, error) {
	if s == NoRequest {
		return DisplayRequest{}, nil
	}

	rt, err := ParseRingTime(s)
	if err != nil {
		return DisplayRequest{}, fmt.Errorf("%q: %w", s, ErrBadRequest)
	}

	return DisplayRequest{RingTime: &rt}, nil
}
