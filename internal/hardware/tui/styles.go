package tui

import "github.com/charmbracelet/lipgloss"

// Colors.
//
//nolint:gochecknoglobals // Style tables.
var (
	colorLit    = lipgloss.Color("#A6E3A1")
	colorDark   = lipgloss.Color("#45475A")
	colorBorder = lipgloss.Color("#6C7086")
	colorMuted  = lipgloss.Color("#7F849C")
)

//nolint:gochecknoglobals // Style tables.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	litStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Foreground(lipgloss.Color("#11111B")).
			Background(colorLit).
			Padding(0, 1)

	darkStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Foreground(colorDark).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

func panelStyle(backlight bool) lipgloss.Style {
	if backlight {
		return litStyle
	}

	return darkStyle
}
