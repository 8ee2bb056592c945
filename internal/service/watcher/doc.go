// Package watcher polls the display request record and turns a ring time
// chosen on the display into an alarm submission.
package watcher
