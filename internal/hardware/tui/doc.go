// Package tui simulates the display hardware in a terminal: the two LCD rows,
// the backlight and the push buttons driven from the keyboard.
package tui
