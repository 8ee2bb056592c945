// Package player starts and stops the external program that sounds the
// ringtone. Only allow-listed ringtone files are ever handed to it.
package player
