package process

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Launcher starts commands.
type Launcher interface {
	Launch(ctx context.Context, cmd Command) (*Process, error)
}

// Supervisor runs command lines through the shell and tracks the children
// until they exit.
type Supervisor struct {
	mu        sync.Mutex
	processes map[string]*Process
	idle      chan struct{} // closed while nothing runs
	closed    bool

	shell        string
	output       io.Writer
	maxProcesses int
	onExit       func(p *Process)
}

// SupervisorOption configures a Supervisor.
type SupervisorOption func(*Supervisor)

// WithShell sets the shell used to run command lines. Default "sh".
func WithShell(shell string) SupervisorOption {
	return func(s *Supervisor) { s.shell = shell }
}

// WithOutput sends child stdout and stderr to w. Default is discarded.
func WithOutput(w io.Writer) SupervisorOption {
	return func(s *Supervisor) { s.output = w }
}

// WithMaxProcesses caps concurrent children. Zero means no cap.
func WithMaxProcesses(n int) SupervisorOption {
	return func(s *Supervisor) { s.maxProcesses = n }
}

// WithExitCallback is called once per child after it ends.
func WithExitCallback(fn func(p *Process)) SupervisorOption {
	return func(s *Supervisor) { s.onExit = fn }
}

// NewSupervisor creates a new process supervisor.
func NewSupervisor(opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		processes: make(map[string]*Process),
		idle:      make(chan struct{}),
		shell:     "sh",
		output:    io.Discard,
	}
	close(s.idle)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Launch starts cmd.Line in cmd.Dir. The child outlives ctx, which only
// bounds the launch.
func (s *Supervisor) Launch(ctx context.Context, cmd Command) (*Process, error) {
	if cmd.Line == "" {
		return nil, ErrEmptyCommand
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.closed:
		return nil, ErrShutdown
	case s.maxProcesses > 0 && len(s.processes) >= s.maxProcesses:
		return nil, fmt.Errorf("%w: %d", ErrLimit, s.maxProcesses)
	}

	proc := NewProcess(uuid.NewString(), cmd, s.command(cmd))
	if err := proc.start(); err != nil {
		return nil, err
	}
	if len(s.processes) == 0 {
		s.idle = make(chan struct{})
	}
	s.processes[proc.ID] = proc
	go s.reap(proc)
	return proc, nil
}

func (s *Supervisor) command(cmd Command) *exec.Cmd {
	c := exec.Command(s.shell, "-c", cmd.Line)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	if s.output != io.Discard {
		c.Stdout = s.output
		c.Stderr = s.output
		// An editor forked by the shell can keep the pipe open.
		c.WaitDelay = time.Second
	}
	return c
}

func (s *Supervisor) reap(proc *Process) {
	<-proc.Done()
	if s.onExit != nil {
		func() {
			defer func() { _ = recover() }()
			s.onExit(proc)
		}()
	}

	s.mu.Lock()
	delete(s.processes, proc.ID)
	if len(s.processes) == 0 {
		close(s.idle)
	}
	s.mu.Unlock()
}

// Get returns the running process with id, or nil.
func (s *Supervisor) Get(id string) *Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processes[id]
}

// List returns the running processes in no particular order.
func (s *Supervisor) List() []*Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Process, 0, len(s.processes))
	for _, p := range s.processes {
		out = append(out, p)
	}
	return out
}

// Count returns the number of running processes.
func (s *Supervisor) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.processes)
}

// Kill sends SIGKILL to the process with id.
func (s *Supervisor) Kill(id string) error {
	p := s.Get(id)
	if p == nil {
		return ErrNotFound
	}
	if !p.Running() {
		return nil
	}
	return p.Kill()
}

// Wait blocks until no child is running or ctx is done. Exit callbacks
// have returned by the time Wait does.
func (s *Supervisor) Wait(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown refuses new launches, sends SIGTERM to every child and kills
// whatever is left after timeout. It returns once all children are gone.
func (s *Supervisor) Shutdown(timeout time.Duration) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	for _, p := range s.List() {
		_ = p.Terminate()
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if s.Wait(ctx) == nil {
		return
	}
	for _, p := range s.List() {
		_ = p.Kill()
	}
	_ = s.Wait(context.Background())
}

// IsShuttingDown reports whether Shutdown has been called.
func (s *Supervisor) IsShuttingDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
