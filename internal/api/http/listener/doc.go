// Package listener runs the short-lived HTTP services of the controller.
package listener
