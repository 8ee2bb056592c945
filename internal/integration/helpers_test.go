package integration

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/service/controller"
	"github.com/oshokin/alarm-clock/internal/service/display"
	"github.com/oshokin/alarm-clock/internal/service/player/playertest"
)

const waitFor = 10 * time.Second

// reservePort returns a free local address.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// writeConfig saves a configuration with every file under a temporary
// directory and every service on a free port.
func writeConfig(t *testing.T) (string, *config.Config) {
	t.Helper()

	dir := t.TempDir()

	cfg := &config.Config{
		Files: config.Files{
			ControllerStatus: filepath.Join(dir, "status_files", "to_display.status"),
			DisplayRequest:   filepath.Join(dir, "status_files", "from_display.status"),
			WebStatus:        filepath.Join(dir, "status_files", "web.status"),
		},
		Controller: config.Controller{
			SettingsAddress: reservePort(t),
			StopAddress:     reservePort(t),
			HealthAddress:   reservePort(t),
			RingtoneDir:     filepath.Join(dir, "audios"),
		},
	}

	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, config.Save(path, cfg))

	return path, cfg
}

// readFile returns the file contents or "" when it cannot be read.
func readFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	return string(data)
}

// startController runs the controller until the test ends.
func startController(t *testing.T, cfgPath string, clock clockwork.Clock) *playertest.Launcher {
	t.Helper()

	launcher := new(playertest.Launcher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- controller.Run(ctx, &controller.Options{
			ConfigPath: cfgPath,
			Clock:      clock,
			Launcher:   launcher,
		})
	}()

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	return launcher
}

// startDisplay runs the display until the test ends.
func startDisplay(t *testing.T, cfgPath string, clock clockwork.Clock, opts display.Options) {
	t.Helper()

	opts.ConfigPath = cfgPath
	opts.Clock = clock

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- display.Run(ctx, &opts)
	}()

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
}

// fastForward advances clock by step every millisecond until the test ends.
func fastForward(t *testing.T, clock *clockwork.FakeClock, step time.Duration) {
	t.Helper()

	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				clock.Advance(step)
			}
		}
	}()

	t.Cleanup(func() {
		close(stop)
		<-done
	})
}

// lastFrame keeps the latest frame shown by the display.
type lastFrame struct {
	mu    sync.Mutex
	lines display.Lines
}

func (s *lastFrame) Show(lines display.Lines) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = lines
}

func (s *lastFrame) SetBacklight(bool) {}

func (s *lastFrame) second() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lines[1]
}
