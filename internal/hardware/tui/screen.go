package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oshokin/alarm-clock/internal/hardware"
)

// DefaultHold is how long a key press holds its button.
const DefaultHold = 250 * time.Millisecond

// Options configures a Screen.
type Options struct {
	// Title is shown above the rows.
	Title string
	// Hold is how long a key press holds its button.
	Hold time.Duration
	// Backlight is the initial backlight state.
	Backlight bool
	// ProgramOptions are passed to bubbletea, e.g. to redirect input in tests.
	ProgramOptions []tea.ProgramOption
}

// Screen is a terminal rendition of the LCD and its buttons.
type Screen struct {
	program *tea.Program
	panel   hardware.Panel
}

// New creates a screen bound to ctx. The program starts with Run.
func New(ctx context.Context, opts Options) *Screen {
	if opts.Hold <= 0 {
		opts.Hold = DefaultHold
	}

	panel, switches := hardware.NewSwitchPanel(
		hardware.InputUp, hardware.InputDown, hardware.InputMenu, hardware.InputConfirm,
	)

	programOpts := append([]tea.ProgramOption{tea.WithContext(ctx)}, opts.ProgramOptions...)

	m := newModel(opts.Title, switches, opts.Hold)
	m.backlight = opts.Backlight

	return &Screen{
		program: tea.NewProgram(m, programOpts...),
		panel:   panel,
	}
}

// Panel returns the buttons driven by the keyboard.
func (s *Screen) Panel() hardware.Panel {
	return s.panel
}

// Show replaces both rows. It blocks until Run takes the update or the
// program has stopped.
func (s *Screen) Show(first, second string) {
	s.program.Send(linesMsg{first, second})
}

// SetBacklight switches the simulated backlight.
func (s *Screen) SetBacklight(on bool) {
	s.program.Send(backlightMsg(on))
}

// Run draws the screen until the user quits or ctx is done.
func (s *Screen) Run(ctx context.Context) error {
	_, err := s.program.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}
