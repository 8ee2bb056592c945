// Package hardware abstracts the digital inputs, the light sensor and the
// backlight of the alarm clock so the controller and the display run the same
// way on a Raspberry Pi, in a terminal or under test.
package hardware
