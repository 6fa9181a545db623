package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// State is the lifecycle stage of a launched editor.
type State int

const (
	// StatePending means the process has not been started.
	StatePending State = iota
	// StateRunning means the process is running.
	StateRunning
	// StateExited means the process exited on its own.
	StateExited
	// StateSignaled means the process was ended by a signal.
	StateSignaled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateSignaled:
		return "signaled"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Command describes a program to launch.
type Command struct {
	// Name labels the launch ("create", "open").
	Name string

	// Line is the shell command line.
	Line string

	// Dir is the working directory.
	Dir string

	// Env holds extra KEY=value entries added to the inherited environment.
	Env []string
}

// Exit records how a process ended.
type Exit struct {
	Code int
	Err  error
}

// Process is an editor launched in the background. Nothing waits for it
// unless the caller does.
type Process struct {
	ID      string
	Name    string
	Command Command
	Started time.Time

	cmd  *exec.Cmd
	done chan struct{}

	mu    sync.Mutex
	state State
	exit  Exit
}

// NewProcess wraps an unstarted cmd.
func NewProcess(id string, command Command, cmd *exec.Cmd) *Process {
	return &Process{
		ID:      id,
		Name:    command.Name,
		Command: command,
		cmd:     cmd,
		done:    make(chan struct{}),
		exit:    Exit{Code: -1},
	}
}

// NewCompletedProcess returns a process that already exited with code.
func NewCompletedProcess(id string, command Command, code int) *Process {
	p := NewProcess(id, command, nil)
	p.Started = time.Now()
	x := Exit{Code: code}
	if code != 0 {
		x.Err = fmt.Errorf("%s: exit status %d", command.Name, code)
	}
	p.finish(StateExited, x)
	return p
}

// State returns the current process state.
func (p *Process) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Exit returns the exit record. Code is -1 until the process ends.
func (p *Process) Exit() Exit {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exit
}

// ExitCode is shorthand for Exit().Code.
func (p *Process) ExitCode() int {
	return p.Exit().Code
}

// Done is closed once the process has ended.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the process ends or ctx is done, and returns the exit
// error in the first case.
func (p *Process) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.Exit().Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether the process has started and not yet ended.
func (p *Process) Running() bool {
	return p.State() == StateRunning
}

// Ended reports whether the process exited or was killed by a signal.
func (p *Process) Ended() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// PID returns the OS process id, or -1 when nothing was started.
func (p *Process) PID() int {
	if p.cmd == nil || p.cmd.Process == nil {
		return -1
	}
	return p.cmd.Process.Pid
}

// Signal delivers sig to a running process.
func (p *Process) Signal(sig os.Signal) error {
	if !p.Running() {
		return ErrNotRunning
	}
	return p.cmd.Process.Signal(sig)
}

// Terminate sends SIGTERM to the process.
func (p *Process) Terminate() error { return p.Signal(syscall.SIGTERM) }

// Kill sends SIGKILL to the process.
func (p *Process) Kill() error { return p.Signal(syscall.SIGKILL) }

// Runtime is the time since launch.
func (p *Process) Runtime() time.Duration {
	if p.Started.IsZero() {
		return 0
	}
	return time.Since(p.Started)
}

func (p *Process) start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePending || p.cmd == nil {
		return ErrAlreadyStarted
	}
	if err := p.cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.Name, err)
	}
	p.Started = time.Now()
	p.state = StateRunning
	go p.reap()
	return nil
}

func (p *Process) reap() {
	err := p.cmd.Wait()
	if err == nil {
		p.finish(StateExited, Exit{Code: 0})
		return
	}

	state, code := StateExited, -1
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		code = ee.ExitCode()
		if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			state = StateSignaled
		}
	}
	p.finish(state, Exit{Code: code, Err: err})
}

func (p *Process) finish(state State, x Exit) {
	p.mu.Lock()
	if p.state == StateExited || p.state == StateSignaled {
		p.mu.Unlock()
		return
	}
	p.state = state
	p.exit = x
	p.mu.Unlock()
	close(p.done)
}
