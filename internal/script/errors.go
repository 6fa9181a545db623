package script

import "errors"

var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrFunctionNotFound is returned when a called global is missing.
	ErrFunctionNotFound = errors.New("lua function not found")

	// ErrBadReturn is returned when a function returns an unexpected value.
	ErrBadReturn = errors.New("lua function returned unexpected value")
)
