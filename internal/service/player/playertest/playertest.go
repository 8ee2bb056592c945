// Package playertest provides an in-memory player launcher for tests.
package playertest

import (
	"context"
	"sync"

	"github.com/oshokin/alarm-clock/internal/service/player"
)

// Launcher records launches and hands out controllable processes.
type Launcher struct {
	mu        sync.Mutex
	launches  []string
	processes []*Process
	// IgnoreTerminate makes new processes ignore Terminate.
	IgnoreTerminate bool
}

// Launch implements player.Launcher.
//
//nolint:ireturn // Implements player.Launcher.
func (l *Launcher) Launch(_ context.Context, path string) (player.Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := &Process{
		path:            path,
		exit:            make(chan struct{}),
		ignoreTerminate: l.IgnoreTerminate,
	}

	l.launches = append(l.launches, path)
	l.processes = append(l.processes, p)

	return p, nil
}

// Launches returns the launched file paths in order.
func (l *Launcher) Launches() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.launches...)
}

// Count returns the number of launches.
func (l *Launcher) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.launches)
}

// Last returns the most recent process, or nil.
func (l *Launcher) Last() *Process {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.processes) == 0 {
		return nil
	}

	return l.processes[len(l.processes)-1]
}

// Running returns the number of processes that have not exited.
func (l *Launcher) Running() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0

	for _, p := range l.processes {
		if !p.Exited() {
			n++
		}
	}

	return n
}

// Process is a fake player process.
type Process struct {
	path            string
	exit            chan struct{}
	once            sync.Once
	ignoreTerminate bool

	mu         sync.Mutex
	terminated bool
	killed     bool
}

// Path returns the file the process was started with.
func (p *Process) Path() string {
	return p.path
}

// Finish makes the process exit on its own.
func (p *Process) Finish() {
	p.once.Do(func() { close(p.exit) })
}

// Exited reports whether the process has exited.
func (p *Process) Exited() bool {
	select {
	case <-p.exit:
		return true
	default:
		return false
	}
}

// Terminated reports whether Terminate was called.
func (p *Process) Terminated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.terminated
}

// Killed reports whether Kill was called.
func (p *Process) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.killed
}

// Wait implements player.Process.
func (p *Process) Wait() error {
	<-p.exit

	return nil
}

// Terminate implements player.Process.
func (p *Process) Terminate() error {
	p.mu.Lock()
	p.terminated = true
	p.mu.Unlock()

	if !p.ignoreTerminate {
		p.Finish()
	}

	return nil
}

// Kill implements player.Process.
func (p *Process) Kill() error {
	p.mu.Lock()
	p.killed = true
	p.mu.Unlock()

	p.Finish()

	return nil
}
