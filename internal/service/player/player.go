package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mitchellh/go-ps"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// DefaultTerminateGrace is how long a terminated player may take to exit
// before it is killed.
const DefaultTerminateGrace = time.Second

// Process is a running player.
type Process interface {
	// Wait blocks until the process exits.
	Wait() error
	// Terminate asks the process to exit.
	Terminate() error
	// Kill stops the process immediately.
	Kill() error
}

// Launcher starts a player for the ringtone file at path.
type Launcher interface {
	Launch(ctx context.Context, path string) (Process, error)
}

// Options configures a Player.
type Options struct {
	// Dir is the ringtone directory.
	Dir string
	// Allowed is the ringtone allow-list.
	Allowed alarm.AllowList
	// Command is the player executable.
	Command string
	// Args precede the file path on the command line.
	Args []string
	// Launcher overrides the exec based launcher.
	Launcher Launcher
	// Clock drives the terminate grace period.
	Clock clockwork.Clock
	// Grace overrides DefaultTerminateGrace.
	Grace time.Duration
}

// Player plays allow-listed ringtones.
type Player struct {
	dir      string
	allowed  alarm.AllowList
	command  string
	launcher Launcher
	clock    clockwork.Clock
	grace    time.Duration
}

// New creates a Player.
func New(opts Options) *Player {
	p := &Player{
		dir:      opts.Dir,
		allowed:  opts.Allowed,
		command:  opts.Command,
		launcher: opts.Launcher,
		clock:    opts.Clock,
		grace:    opts.Grace,
	}

	if p.launcher == nil {
		p.launcher = &execLauncher{command: opts.Command, args: append([]string(nil), opts.Args...)}
	}

	if p.clock == nil {
		p.clock = clockwork.NewRealClock()
	}

	if p.grace <= 0 {
		p.grace = DefaultTerminateGrace
	}

	return p
}

// Check reports alarm.ErrRingtoneNotAllowed for a name outside the allow-list.
func (p *Player) Check(ringtone string) error {
	return p.allowed.Check(ringtone)
}

// Play starts the ringtone. A name outside the allow-list is refused with
// alarm.ErrRingtoneNotAllowed before any process is started.
func (p *Player) Play(ctx context.Context, ringtone string) (*Playback, error) {
	if err := p.Check(ringtone); err != nil {
		return nil, err
	}

	path := filepath.Join(p.dir, ringtone)

	proc, err := p.launcher.Launch(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("start player for %s: %w", path, err)
	}

	logger.DebugKV(ctx, "Player started", "path", path)

	pb := &Playback{
		ringtone: ringtone,
		proc:     proc,
		clock:    p.clock,
		grace:    p.grace,
		done:     make(chan struct{}),
	}

	go func() {
		pb.err = proc.Wait()
		close(pb.done)
	}()

	return pb, nil
}

// ReapStray kills player processes left behind by a previous run of the
// controller and returns how many were killed.
func (p *Player) ReapStray(ctx context.Context) (int, error) {
	return ReapStray(ctx, filepath.Base(p.command))
}

// Playback is one run of the player.
type Playback struct {
	ringtone string
	proc     Process
	clock    clockwork.Clock
	grace    time.Duration

	done chan struct{}
	err  error

	terminateOnce sync.Once
	terminateErr  error
}

// Ringtone returns the played file name.
func (pb *Playback) Ringtone() string {
	return pb.ringtone
}

// Done is closed when the player exits.
func (pb *Playback) Done() <-chan struct{} {
	return pb.done
}

// Wait blocks until the player exits and returns its exit error.
func (pb *Playback) Wait() error {
	<-pb.done

	return pb.err
}

// Terminate stops the player and waits for it to exit. A player that
// ignores the request is killed after the grace period.
func (pb *Playback) Terminate() error {
	pb.terminateOnce.Do(func() {
		pb.terminateErr = pb.terminate()
	})

	return pb.terminateErr
}

func (pb *Playback) terminate() error {
	select {
	case <-pb.done:
		return nil
	default:
	}

	if err := pb.proc.Terminate(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return pb.kill()
	}

	select {
	case <-pb.done:
		return nil
	case <-pb.clock.After(pb.grace):
		return pb.kill()
	}
}

func (pb *Playback) kill() error {
	if err := pb.proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill player: %w", err)
	}

	<-pb.done

	return nil
}

// execLauncher runs "command args... path".
type execLauncher struct {
	command string
	args    []string
}

func (l *execLauncher) Launch(ctx context.Context, path string) (Process, error) {
	args := append(append([]string(nil), l.args...), path)

	//nolint:gosec // The command is configured by the operator and path is allow-listed.
	cmd := exec.CommandContext(ctx, l.command, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &execProcess{cmd: cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Wait() error {
	return p.cmd.Wait()
}

func (p *execProcess) Terminate() error {
	return p.cmd.Process.Signal(syscall.SIGTERM)
}

func (p *execProcess) Kill() error {
	return p.cmd.Process.Kill()
}

// ReapStray kills every process whose executable name equals executable,
// except the current one.
func ReapStray(ctx context.Context, executable string) (int, error) {
	if strings.TrimSpace(executable) == "" {
		return 0, nil
	}

	processList, err := ps.Processes()
	if err != nil {
		return 0, fmt.Errorf("list processes: %w", err)
	}

	thisProcessID := os.Getpid()
	killed := 0

	for _, process := range processList {
		if process.Pid() == thisProcessID || process.Executable() != executable {
			continue
		}

		runningProcess, err := os.FindProcess(process.Pid())
		if err != nil {
			return killed, fmt.Errorf("find process %d: %w", process.Pid(), err)
		}

		if err = runningProcess.Kill(); err != nil {
			logger.WarnKV(ctx, "Unable to kill stray player", "pid", process.Pid(), "error", err)

			continue
		}

		logger.InfoKV(ctx, "Killed stray player", "pid", process.Pid(), "executable", executable)

		killed++
	}

	return killed, nil
}
