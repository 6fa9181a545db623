package process

import "errors"

// Errors returned by Process and Supervisor.
var (
	// ErrNotRunning is returned when signaling a process that is not running.
	ErrNotRunning = errors.New("process not running")

	// ErrAlreadyStarted is returned when starting a process twice.
	ErrAlreadyStarted = errors.New("process already started")

	// ErrNotFound is returned for an unknown process ID.
	ErrNotFound = errors.New("process not found")

	// ErrShutdown is returned by Launch after Shutdown.
	ErrShutdown = errors.New("supervisor is shut down")

	// ErrEmptyCommand is returned for a command without a command line.
	ErrEmptyCommand = errors.New("empty command line")

	// ErrLimit is returned when the supervisor already runs its maximum
	// number of editors.
	ErrLimit = errors.New("process limit reached")
)
