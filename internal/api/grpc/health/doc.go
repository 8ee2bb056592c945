// Package health exposes the scheduler state through the standard gRPC health
// checking protocol and provides the matching probe.
package health
