package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oshokin/alarm-clock/internal/hardware"
)

type (
	// linesMsg replaces both rows.
	linesMsg [2]string
	// backlightMsg switches the backlight.
	backlightMsg bool
	// releaseMsg lets a button go unless it was pressed again since.
	releaseMsg struct {
		input string
		seq   int
	}
)

// model is the bubbletea model. Buttons have no key-up event in a terminal,
// so each key press holds its switch for a fixed time.
type model struct {
	title     string
	lines     [2]string
	backlight bool
	keys      keyMap
	switches  map[string]*hardware.Switch
	presses   map[string]int
	hold      time.Duration
}

func newModel(title string, switches map[string]*hardware.Switch, hold time.Duration) model {
	return model{
		title:    title,
		keys:     defaultKeyMap(),
		switches: switches,
		presses:  make(map[string]int, len(switches)),
		hold:     hold,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

//nolint:ireturn // Required by tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}

		for _, in := range m.keys.inputs() {
			if key.Matches(msg, in.binding) {
				return m, m.press(in.input)
			}
		}
	case linesMsg:
		m.lines = msg
	case backlightMsg:
		m.backlight = bool(msg)
	case releaseMsg:
		if m.presses[msg.input] == msg.seq {
			if sw, ok := m.switches[msg.input]; ok {
				sw.Release()
			}
		}
	}

	return m, nil
}

func (m model) press(input string) tea.Cmd {
	sw, ok := m.switches[input]
	if !ok {
		return nil
	}

	m.presses[input]++
	seq := m.presses[input]

	sw.Press()

	return tea.Tick(m.hold, func(time.Time) tea.Msg {
		return releaseMsg{input: input, seq: seq}
	})
}

func (m model) View() string {
	rows := panelStyle(m.backlight).Render(m.lines[0] + "\n" + m.lines[1])

	help := make([]string, 0, len(m.keys.help()))
	for _, b := range m.keys.help() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.title),
		rows,
		helpStyle.Render(strings.Join(help, " • ")),
	) + "\n"
}
