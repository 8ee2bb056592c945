package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/oshokin/alarm-clock/internal/hardware"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Menu    key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "later"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "earlier"),
		),
		Menu: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "menu"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// inputs pairs each button binding with the input it presses.
func (k keyMap) inputs() []inputKey {
	return []inputKey{
		{binding: k.Up, input: hardware.InputUp},
		{binding: k.Down, input: hardware.InputDown},
		{binding: k.Menu, input: hardware.InputMenu},
		{binding: k.Confirm, input: hardware.InputConfirm},
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Menu, k.Confirm, k.Quit}
}

type inputKey struct {
	binding key.Binding
	input   string
}
