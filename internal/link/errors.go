package link

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidScheme is returned for empty or malformed scheme names.
	ErrInvalidScheme = errors.New("invalid link scheme")

	// ErrUnknownScheme is returned when no binding exists for a scheme.
	ErrUnknownScheme = errors.New("unknown link scheme")

	// ErrNoFollowHandler is returned when a binding cannot be followed.
	ErrNoFollowHandler = errors.New("link scheme has no follow handler")
)

// ConfigurationError reports a rejected registration.
type ConfigurationError struct {
	Scheme string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("link scheme %q: %s", e.Scheme, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
