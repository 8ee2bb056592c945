package display

import (
	"context"
	"strings"
	"sync"

	"github.com/oshokin/alarm-clock/internal/hardware"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// Screen shows two rows of text and drives the backlight.
type Screen interface {
	hardware.Backlight

	Show(lines Lines)
}

// LogScreen writes every update to the log. It is used on headless hosts.
type LogScreen struct {
	ctx context.Context

	mu        sync.Mutex
	backlight bool
	known     bool
}

// NewLogScreen creates a screen logging through the logger stored in ctx.
func NewLogScreen(ctx context.Context) *LogScreen {
	return &LogScreen{ctx: logger.WithName(ctx, "screen")}
}

// Show logs both rows.
func (s *LogScreen) Show(lines Lines) {
	logger.InfoKV(s.ctx, "Display updated",
		"line1", strings.TrimRight(lines[0], " "),
		"line2", strings.TrimRight(lines[1], " "),
	)
}

// SetBacklight logs backlight changes.
func (s *LogScreen) SetBacklight(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.known && s.backlight == on {
		return
	}

	s.backlight, s.known = on, true

	logger.DebugKV(s.ctx, "Backlight switched", "on", on)
}
