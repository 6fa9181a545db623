package process

import (
	"context"
	"fmt"
	"sync"
)

// FakeLauncher records commands instead of running them. Each launch
// returns a process that has already exited with ExitCode.
type FakeLauncher struct {
	mu       sync.Mutex
	commands []Command

	// ExitCode is the exit code of returned processes.
	ExitCode int

	// Err, when set, is returned by Launch.
	Err error
}

// Launch records cmd.
func (f *FakeLauncher) Launch(ctx context.Context, cmd Command) (*Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	f.commands = append(f.commands, cmd)
	return NewCompletedProcess(fmt.Sprintf("fake-%d", len(f.commands)), cmd, f.ExitCode), nil
}

// Commands returns the launched commands in order.
func (f *FakeLauncher) Commands() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.commands...)
}
