// Package stop implements the stop command service that runs while an alarm
// is armed or ringing.
package stop
