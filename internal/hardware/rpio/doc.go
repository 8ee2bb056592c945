// Package rpio reads the alarm clock buttons and the RC light sensor from
// Raspberry Pi GPIO pins through /dev/gpiomem.
package rpio
