package alarm

// State is a step of the scheduler state machine.
type State int

const (
	// StateIdle publishes the inactive record and resets the cycle inputs.
	StateIdle State = iota
	// StateAwaitingConfig races the intake sources.
	StateAwaitingConfig
	// StateArmed counts down to the ring time.
	StateArmed
	// StateRinging plays the ringtone.
	StateRinging
	// StateSnoozed waits out the snooze duration.
	StateSnoozed
)

// String returns the state name used in logs and health reports.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingConfig:
		return "awaiting_config"
	case StateArmed:
		return "armed"
	case StateRinging:
		return "ringing"
	case StateSnoozed:
		return "snoozed"
	default:
		return "unknown"
	}
}

// Engaged reports whether an alarm is set in this state.
func (s State) Engaged() bool {
	return s == StateArmed || s == StateRinging || s == StateSnoozed
}
