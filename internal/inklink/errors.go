package inklink

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInstalled is returned by operations that need Install first.
	ErrNotInstalled = errors.New("inklink: module not installed")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("inklink: module closed")
)

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("inklink: init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
