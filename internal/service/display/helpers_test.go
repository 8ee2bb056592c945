package display

import (
	"sync"
)

// recordingScreen keeps every shown frame.
type recordingScreen struct {
	mu        sync.Mutex
	frames    []Lines
	backlight bool
}

func (s *recordingScreen) Show(lines Lines) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frames = append(s.frames, lines)
}

func (s *recordingScreen) SetBacklight(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.backlight = on
}

func (s *recordingScreen) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.frames)
}

func (s *recordingScreen) last() Lines {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.frames) == 0 {
		return Lines{}
	}

	return s.frames[len(s.frames)-1]
}
