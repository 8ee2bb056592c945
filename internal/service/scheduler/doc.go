// Package scheduler runs the alarm cycle of the controller:
//
//	Idle -> AwaitingConfig -> Armed -> Ringing <-> Snoozed -> Idle
//
// Each cycle races the intake sources for a configuration, counts down to
// the ring time, plays the ringtone until the alarm is stopped and always
// returns the status records to idle, however the cycle ended.
package scheduler
