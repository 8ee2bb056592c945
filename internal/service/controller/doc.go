// Package controller wires the alarm-controller process: configuration,
// logging, the scheduler with its intake and stop services, playback, the
// stop/snooze inputs and the optional health endpoint.
package controller
