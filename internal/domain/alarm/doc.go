// Package alarm contains the core domain types of the alarm clock.
//
// It defines the ring time and its countdown arithmetic, the raw Submission
// produced by the intake sources and the parsed Config adopted for a cycle,
// the records exchanged through the status files, the scheduler State, and
// the two cross-task signals: the one-shot Latch and the StopFlag.
package alarm
