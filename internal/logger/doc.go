// Package logger wraps zap for the controller and display processes:
//   - a global sugared logger with a console encoder on stdout,
//   - an optional rotating file sink (lumberjack) teed next to stdout,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and leveled helpers (Infof, WarnKV, ErrorKV, ...).
//
// Tasks receive a context and pull their named logger out of it, so every
// line written during an alarm cycle carries the task name and cycle id.
package logger
