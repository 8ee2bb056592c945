// Package display runs the display process: it renders the controller status
// on a two line, sixteen column screen, lets the user pick a ring time with
// the menu buttons and dims the backlight in a bright room.
package display
