package display

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// Columns is the width of the screen.
const Columns = 16

// Lines is the content of the two screen rows, each exactly Columns wide.
type Lines [2]string

// NewLines pads or cuts both rows to the screen width.
func NewLines(first, second string) Lines {
	return Lines{fit(first), fit(second)}
}

// Status renders the clock and the alarm status.
func Status(now time.Time, st alarm.ControllerStatus) Lines {
	clock := fmt.Sprintf("    %s %s", now.Weekday().String()[:3], now.Format("15:04"))

	switch {
	case st.Active() && st.IsRinging():
		return NewLines(clock, " (*) Alarm (*) ")
	case st.Active():
		return NewLines(clock, "Alarm at: "+st.RingTime)
	default:
		return NewLines(clock, "   No alarm set")
	}
}

// Menu renders the ring time editor.
func Menu(candidate alarm.RingTime) Lines {
	return NewLines(center("<Alarm time>"), center(candidate.String()))
}

// Notice renders a centered two row message.
func Notice(first, second string) Lines {
	return NewLines(center(first), center(second))
}

func fit(s string) string {
	n := utf8.RuneCountInString(s)
	if n > Columns {
		return string([]rune(s)[:Columns])
	}

	return s + strings.Repeat(" ", Columns-n)
}

func center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= Columns {
		return s
	}

	return strings.Repeat(" ", (Columns-n)/2) + s
}
